package push

import (
	"context"
	"net/http"
	"strings"
	"time"

	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"github.com/rs/zerolog"

	"github.com/orderpush/orderpush/internal/provider/resilience"
	"github.com/orderpush/orderpush/internal/pushtoken"
)

// ExpoChunkSize is the maximum number of messages per Expo request.
const ExpoChunkSize = 100

// ExpoPublisher is the subset of the Expo push client used by ExpoSender.
type ExpoPublisher interface {
	PublishMultiple(messages []expo.PushMessage) ([]expo.PushResponse, error)
}

// ExpoClientConfig configures the Expo push client.
type ExpoClientConfig struct {
	// AccessToken is sent as a bearer token when set.
	AccessToken string

	// Host overrides the Expo API host.
	Host string

	Timeout time.Duration
}

// NewExpoClient creates an Expo push client.
func NewExpoClient(cfg ExpoClientConfig) *expo.PushClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return expo.NewPushClient(&expo.ClientConfig{
		Host:        cfg.Host,
		AccessToken: cfg.AccessToken,
		HTTPClient:  &http.Client{Timeout: timeout},
	})
}

// ValidExpoToken reports whether token passes the SDK check and has the
// bracketed ExponentPushToken[...] shape.
func ValidExpoToken(token string) bool {
	if _, err := expo.NewExponentPushToken(token); err != nil {
		return false
	}
	inner, ok := strings.CutPrefix(token, ExpoTokenPrefix+"[")
	return ok && len(inner) > 1 && strings.HasSuffix(inner, "]")
}

// ExpoSender delivers the Expo lane.
type ExpoSender struct {
	publisher ExpoPublisher
	guard     *resilience.Guard
	logger    zerolog.Logger
}

// NewExpoSender creates an ExpoSender. guard may be nil.
func NewExpoSender(publisher ExpoPublisher, guard *resilience.Guard, logger zerolog.Logger) *ExpoSender {
	return &ExpoSender{
		publisher: publisher,
		guard:     guard,
		logger:    logger.With().Str("lane", string(LaneExpo)).Logger(),
	}
}

// Send validates tokens and publishes one message per token in sequential
// chunks. A failed chunk is logged and the next chunk still runs.
func (s *ExpoSender) Send(ctx context.Context, tokens []string, msg Message) LaneResult {
	res := LaneResult{Lane: LaneExpo}

	valid := make([]expo.ExponentPushToken, 0, len(tokens))
	for _, t := range tokens {
		if !ValidExpoToken(t) {
			res.Invalid++
			continue
		}
		valid = append(valid, expo.ExponentPushToken(t))
	}

	for start, chunk := 0, 0; start < len(valid); start, chunk = start+ExpoChunkSize, chunk+1 {
		batch := valid[start:min(start+ExpoChunkSize, len(valid))]
		res.Attempted += len(batch)

		if err := ctx.Err(); err != nil {
			res.Failed += len(batch)
			continue
		}

		messages := make([]expo.PushMessage, len(batch))
		for i, tok := range batch {
			messages[i] = expo.PushMessage{
				To:    []expo.ExponentPushToken{tok},
				Title: msg.Title,
				Body:  msg.Body,
				Data:  msg.Data,
				Sound: "default",
			}
		}

		var responses []expo.PushResponse
		err := s.guard.Do(func() error {
			var err error
			responses, err = s.publisher.PublishMultiple(messages)
			return err
		})
		if err != nil {
			res.Failed += len(batch)
			s.logger.Error().Err(err).
				Int("chunk", chunk).
				Int("tokens", len(batch)).
				Str("first_token", pushtoken.Last4(string(batch[0]))).
				Msg("expo chunk failed")
			continue
		}

		for i := range responses {
			if err := responses[i].ValidateResponse(); err != nil {
				res.Failed++
				s.logger.Debug().Err(err).Int("chunk", chunk).Msg("expo ticket error")
				continue
			}
			res.Succeeded++
		}
		if missing := len(batch) - len(responses); missing > 0 {
			res.Failed += missing
		}
	}

	return res
}
