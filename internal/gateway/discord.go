package gateway

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

type DiscordGateway struct {
	Session *discordgo.Session
	Conv    Conversation
	Threads ThreadStore
}

func NewDiscordGateway(token string, conv Conversation, threads ThreadStore) (*DiscordGateway, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	dg := &DiscordGateway{
		Session: session,
		Conv:    conv,
		Threads: threads,
	}
	session.AddHandler(dg.onMessage)
	return dg, nil
}

func (dg *DiscordGateway) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	log.Printf("[%s] %s", m.Author.Username, m.Content)

	ctx := context.Background()
	threadID := fmt.Sprintf("dc_%s", m.ChannelID)

	replies, err := handleIncoming(ctx, dg.Conv, dg.Threads, threadID, m.Content)
	if err != nil {
		log.Printf("Error handling message: %v", err)
		replies = []string{"I'm having trouble right now, please try again."}
	}

	for _, text := range replies {
		if _, err := s.ChannelMessageSend(m.ChannelID, text); err != nil {
			log.Printf("Error sending reply: %v", err)
		}
	}
}

func (dg *DiscordGateway) Start() error {
	return dg.Session.Open()
}

func (dg *DiscordGateway) Send(chatID string, text string) error {
	_, err := dg.Session.ChannelMessageSend(chatID, text)
	return err
}

func (dg *DiscordGateway) Stop() error {
	return dg.Session.Close()
}
