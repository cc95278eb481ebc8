// Package telegram runs Maxy as a Telegram bot. The configured owner
// manages FAQs; everyone else gets auto-replies on enabled chats.
package telegram

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"maxy/internal/bot"
	"maxy/internal/communicators"
	"maxy/internal/gateway"

	tele "gopkg.in/telebot.v3"
)

var tLog *log.Logger

func init() {
	communicators.Register(&Adapter{})
	os.MkdirAll("bin", 0755)
	if f, err := os.OpenFile("bin/telegram.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
		tLog = log.New(f, "", log.LstdFlags)
	} else {
		tLog = log.New(os.Stderr, "", log.LstdFlags)
	}
}

// adminCacheTTL bounds how long a confirmed chat-admin check is trusted
// before the bot API is asked again.
const adminCacheTTL = 10 * time.Minute

// Adapter runs Maxy as a Telegram Bot.
type Adapter struct {
	bot     *tele.Bot
	service *bot.Service
	ownerID string

	adminMu sync.RWMutex
	admins  map[string]time.Time // actor ID -> last confirmed as admin
}

func (a *Adapter) ID() string {
	return "telegram"
}

// Start begins listening for Telegram messages.
func (a *Adapter) Start(ctx context.Context, gw *gateway.Gateway) error {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		tLog.Println("[Telegram] Disabled: TELEGRAM_BOT_TOKEN environment variable not set")
		return nil
	}

	a.ownerID = os.Getenv("MAXY_OWNER_ID")
	a.admins = make(map[string]time.Time)
	if a.ownerID == "" {
		tLog.Println("[Telegram] Warning: MAXY_OWNER_ID not set; only chat admins can manage FAQs")
	}

	service, err := gw.InitService(bot.IdentityFunc(a.isPrivileged))
	if err != nil {
		return err
	}
	a.service = service

	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return fmt.Errorf("failed to create telegram bot: %w", err)
	}
	a.bot = b

	a.setupHandlers()

	tLog.Printf("[Telegram] 🤖 Starting Bot... (@%s)", a.bot.Me.Username)

	go func() {
		<-ctx.Done()
		tLog.Println("[Telegram] Shutting down...")
		a.bot.Stop()
	}()

	a.bot.Start()
	return nil
}

func (a *Adapter) setupHandlers() {
	a.bot.Handle("/start", func(c tele.Context) error {
		return c.Send("👋 Hi, I'm Maxy! Ask me a question and I'll check the FAQ. Admins: see /faq_list, /faq_add, /faq_view.")
	})

	a.bot.Handle("/faq_add", func(c tele.Context) error {
		a.refreshAdmins(c)
		question, answer := splitPipe(c.Message().Payload)
		if question == "" || answer == "" {
			return c.Send("Usage: /faq_add <question> | <answer>")
		}
		return c.Send(a.service.AddFAQ(actorID(c), question, answer))
	})

	a.bot.Handle("/faq_remove", func(c tele.Context) error {
		a.refreshAdmins(c)
		return c.Send(a.service.RemoveFAQ(actorID(c), c.Message().Payload))
	})

	a.bot.Handle("/faq_view", func(c tele.Context) error {
		if strings.TrimSpace(c.Message().Payload) == "" {
			return c.Send("Usage: /faq_view <question>")
		}
		return c.Send(a.service.ViewFAQ(c.Message().Payload))
	})

	a.bot.Handle("/faq_list", a.handleList)

	a.bot.Handle("/faq_channel_on", func(c tele.Context) error {
		a.refreshAdmins(c)
		return c.Send(a.service.AddChannel(actorID(c), chatID(c)))
	})

	a.bot.Handle("/faq_channel_off", func(c tele.Context) error {
		a.refreshAdmins(c)
		return c.Send(a.service.RemoveChannel(actorID(c), chatID(c)))
	})

	a.bot.Handle("/faq_threshold", func(c tele.Context) error {
		a.refreshAdmins(c)
		value, err := strconv.ParseFloat(strings.TrimSpace(c.Message().Payload), 64)
		if err != nil {
			return c.Send("Usage: /faq_threshold <0.0-1.0>")
		}
		return c.Send(a.service.SetThreshold(actorID(c), value))
	})

	a.bot.Handle(tele.OnText, a.handleMessage)
}

// handleList sends the FAQ listing, exporting to a file when it is too long
// for a direct message.
func (a *Adapter) handleList(c tele.Context) error {
	listing, tooLong := a.service.ListFAQ()
	if !tooLong {
		return c.Send(listing)
	}

	f, err := os.CreateTemp("", "faq_list_*.txt")
	if err != nil {
		tLog.Printf("[Telegram] Error creating export file: %v", err)
		return c.Send("⚠️ Could not export the FAQ list.")
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(a.service.ExportListing()); err != nil {
		f.Close()
		tLog.Printf("[Telegram] Error writing export file: %v", err)
		return c.Send("⚠️ Could not export the FAQ list.")
	}
	f.Close()

	if err := c.Send(listing); err != nil {
		return err
	}
	doc := &tele.Document{
		File:     tele.FromDisk(path),
		FileName: "faq_list.txt",
	}
	return c.Send(doc)
}

func (a *Adapter) handleMessage(c tele.Context) error {
	turnCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	reply, replied, err := a.service.HandleMessage(turnCtx, bot.Incoming{
		ChannelID: chatID(c),
		ActorID:   actorID(c),
		Text:      c.Text(),
	})
	if err != nil {
		tLog.Printf("[Telegram] Error processing message in chat %s: %v", chatID(c), err)
		return nil
	}
	if !replied {
		return nil
	}
	return c.Send(reply)
}

// isPrivileged treats the configured owner and recently-confirmed chat
// admins as FAQ managers.
func (a *Adapter) isPrivileged(actorID string) bool {
	if a.ownerID != "" && actorID == a.ownerID {
		return true
	}
	a.adminMu.RLock()
	confirmed, ok := a.admins[actorID]
	a.adminMu.RUnlock()
	return ok && time.Since(confirmed) < adminCacheTTL
}

// refreshAdmins records the current admins of the command's chat. Best
// effort: on API failure the cache simply goes stale and the command is
// refused for non-owners.
func (a *Adapter) refreshAdmins(c tele.Context) {
	chat := c.Chat()
	if chat == nil || chat.Type == tele.ChatPrivate {
		return
	}
	members, err := a.bot.AdminsOf(chat)
	if err != nil {
		tLog.Printf("[Telegram] Error listing admins of chat %d: %v", chat.ID, err)
		return
	}
	now := time.Now()
	a.adminMu.Lock()
	for _, m := range members {
		if m.User != nil {
			a.admins[strconv.FormatInt(m.User.ID, 10)] = now
		}
	}
	a.adminMu.Unlock()
}

func actorID(c tele.Context) string {
	if c.Sender() == nil {
		return ""
	}
	return strconv.FormatInt(c.Sender().ID, 10)
}

func chatID(c tele.Context) string {
	return strconv.FormatInt(c.Chat().ID, 10)
}

// splitPipe parses "question | answer" payloads.
func splitPipe(payload string) (string, string) {
	question, answer, _ := strings.Cut(payload, "|")
	return strings.TrimSpace(question), strings.TrimSpace(answer)
}
