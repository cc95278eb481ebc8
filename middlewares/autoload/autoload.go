// Package autoload pulls in every self-registering middleware. Importing it
// for side effects is all a binary needs to get the default chain.
// Middlewares that require stores (channel_gate, faq_match) are wired
// explicitly by the gateway instead.
package autoload

import (
	_ "maxy/middlewares/fallback"
	_ "maxy/middlewares/llmfallback"
	_ "maxy/middlewares/replycache"
)
