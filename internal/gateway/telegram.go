package gateway

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramGateway struct {
	Bot     *tgbotapi.BotAPI
	Conv    Conversation
	Threads ThreadStore
}

func NewTelegramGateway(token string, conv Conversation, threads ThreadStore) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:     bot,
		Conv:    conv,
		Threads: threads,
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		ctx := context.Background()
		threadID := fmt.Sprintf("tg_%d", update.Message.Chat.ID)

		replies, err := handleIncoming(ctx, tg.Conv, tg.Threads, threadID, update.Message.Text)
		if err != nil {
			log.Printf("Error handling message: %v", err)
			replies = []string{"I'm having trouble right now, please try again."}
		}

		for _, text := range replies {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, text)
			tg.Bot.Send(msg)
		}
	}
	return nil
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id := 0
	fmt.Sscanf(chatID, "%d", &id)
	if id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(int64(id), text)
	_, err := tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}
