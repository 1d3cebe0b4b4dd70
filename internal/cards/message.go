package cards

import (
	chat "google.golang.org/api/chat/v1"
)

// NewCardMessage wraps a card in the cardsV2 message envelope. fallbackText
// is shown by clients that cannot render cards and must not be empty for
// webhook delivery.
func NewCardMessage(cardID string, card *chat.GoogleAppsCardV1Card, fallbackText string) *chat.Message {
	if cardID == "" {
		cardID = "card"
	}
	return &chat.Message{
		Text: fallbackText,
		CardsV2: []*chat.CardWithId{
			{
				CardId: cardID,
				Card:   card,
			},
		},
	}
}
