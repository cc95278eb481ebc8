// Package console runs Maxy against stdin/stdout. Commands act as the
// operator; plain lines are treated as a visitor asking a question on the
// "console" channel, so auto-reply can be exercised locally.
package console

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"maxy/internal/bot"
	"maxy/internal/communicators"
	"maxy/internal/gateway"
)

const (
	channelID  = "console"
	operatorID = "operator"
	visitorID  = "guest"
)

func init() {
	communicators.Register(&Adapter{})
}

// Adapter is the interactive console front end.
type Adapter struct {
	service *bot.Service
}

func (a *Adapter) ID() string {
	return "console"
}

// Start runs the read loop until EOF, /exit, or context cancellation.
func (a *Adapter) Start(ctx context.Context, gw *gateway.Gateway) error {
	service, err := gw.InitService(bot.IdentityFunc(func(actorID string) bool {
		return actorID == operatorID
	}))
	if err != nil {
		return err
	}
	a.service = service

	fmt.Println("Maxy FAQ bot")
	fmt.Printf("Plain messages auto-reply on channel %q once it is enabled.\n", channelID)
	fmt.Println("Type /help for commands, /exit to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	go func() {
		<-ctx.Done()
		os.Stdin.Close() // Force read error to break loop
	}()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" || input == "exit" || input == "quit" {
			return nil
		}

		if strings.HasPrefix(input, "/") {
			fmt.Println(a.command(input))
			continue
		}

		reply, replied, err := a.service.HandleMessage(ctx, bot.Incoming{
			ChannelID: channelID,
			ActorID:   visitorID,
			Text:      input,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if replied {
			fmt.Println(reply)
		}
	}
}

// command dispatches one operator slash command and returns the reply text.
func (a *Adapter) command(input string) string {
	cmd, payload := splitCommand(input)

	switch cmd {
	case "/help":
		return helpText
	case "/faq_add":
		question, answer := splitPipe(payload)
		return a.service.AddFAQ(operatorID, question, answer)
	case "/faq_remove":
		return a.service.RemoveFAQ(operatorID, payload)
	case "/faq_view":
		return a.service.ViewFAQ(payload)
	case "/faq_list":
		listing, tooLong := a.service.ListFAQ()
		if tooLong {
			// No file transfer on a terminal; print the whole thing.
			return a.service.ExportListing()
		}
		return listing
	case "/faq_channel_on":
		return a.service.AddChannel(operatorID, valueOrDefault(payload, channelID))
	case "/faq_channel_off":
		return a.service.RemoveChannel(operatorID, valueOrDefault(payload, channelID))
	case "/faq_threshold":
		value, err := strconv.ParseFloat(payload, 64)
		if err != nil {
			return "Usage: /faq_threshold <0.0-1.0>"
		}
		return a.service.SetThreshold(operatorID, value)
	default:
		return "Unknown command. Type /help for the list."
	}
}

const helpText = `Commands:
  /faq_add <question> | <answer>   add a FAQ
  /faq_remove <question>           remove a FAQ
  /faq_view <question>             look a FAQ up (fuzzy)
  /faq_list                        list stored questions
  /faq_channel_on [channel]        enable auto-reply (default: console)
  /faq_channel_off [channel]       disable auto-reply
  /faq_threshold <value>           set the similarity threshold
  /exit                            quit`

func splitCommand(input string) (cmd, payload string) {
	cmd, payload, _ = strings.Cut(input, " ")
	return cmd, strings.TrimSpace(payload)
}

// splitPipe parses "question | answer" payloads.
func splitPipe(payload string) (string, string) {
	question, answer, _ := strings.Cut(payload, "|")
	return strings.TrimSpace(question), strings.TrimSpace(answer)
}

func valueOrDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
