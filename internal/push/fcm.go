package push

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"

	"github.com/orderpush/orderpush/internal/provider/resilience"
	"github.com/orderpush/orderpush/internal/pushtoken"
)

// FCM delivery settings.
const (
	FCMMulticastLimit = 500
	FCMChannelID      = "orders"
	fcmPriority       = "high"
)

// MulticastClient is the subset of the FCM messaging client used by FCMSender.
type MulticastClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMSender delivers the FCM lane.
type FCMSender struct {
	client MulticastClient
	guard  *resilience.Guard
	logger zerolog.Logger
}

// NewFCMSender creates an FCMSender. guard may be nil.
func NewFCMSender(client MulticastClient, guard *resilience.Guard, logger zerolog.Logger) *FCMSender {
	return &FCMSender{
		client: client,
		guard:  guard,
		logger: logger.With().Str("lane", string(LaneFCM)).Logger(),
	}
}

// Send multicasts msg to tokens. Batches are only split when the FCM limit is
// exceeded; the first failed call aborts the rest of the lane.
func (s *FCMSender) Send(ctx context.Context, tokens []string, msg Message) LaneResult {
	res := LaneResult{Lane: LaneFCM, Attempted: len(tokens)}

	for start := 0; start < len(tokens); start += FCMMulticastLimit {
		batch := tokens[start:min(start+FCMMulticastLimit, len(tokens))]

		var br *messaging.BatchResponse
		err := s.guard.Do(func() error {
			var err error
			br, err = s.client.SendEachForMulticast(ctx, s.multicast(batch, msg))
			return err
		})
		if err != nil {
			res.Failed += len(tokens) - start
			s.logger.Error().Err(err).
				Int("tokens", len(batch)).
				Int("unsent", len(tokens)-start).
				Msg("fcm multicast failed")
			return res
		}

		res.Succeeded += br.SuccessCount
		res.Failed += br.FailureCount
		for i, r := range br.Responses {
			if r == nil || r.Success || i >= len(batch) {
				continue
			}
			s.logger.Debug().Err(r.Error).
				Str("token", pushtoken.Last4(batch[i])).
				Msg("fcm send rejected")
		}
	}

	return res
}

func (s *FCMSender) multicast(tokens []string, msg Message) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: fcmPriority,
			Notification: &messaging.AndroidNotification{
				ChannelID: FCMChannelID,
			},
		},
	}
}
