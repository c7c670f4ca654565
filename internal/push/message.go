package push

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExpoTokenPrefix marks tokens that belong to the Expo lane.
const ExpoTokenPrefix = "ExponentPushToken"

// Message is the content shared by every recipient of one dispatch.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Classify splits tokens into the Expo and FCM lanes. Blank tokens are dropped
// and input order is preserved within each lane.
func Classify(tokens []string) (expoTokens, fcmTokens []string) {
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		switch {
		case t == "":
		case strings.HasPrefix(t, ExpoTokenPrefix):
			expoTokens = append(expoTokens, t)
		default:
			fcmTokens = append(fcmTokens, t)
		}
	}
	return expoTokens, fcmTokens
}

// StringifyData converts a payload to the string map both providers accept.
// Strings pass through, nil values are dropped and everything else is JSON
// encoded.
func StringifyData(payload map[string]any) map[string]string {
	if len(payload) == 0 {
		return nil
	}

	data := make(map[string]string, len(payload))
	for k, v := range payload {
		switch val := v.(type) {
		case nil:
		case string:
			data[k] = val
		case fmt.Stringer:
			data[k] = val.String()
		default:
			b, err := json.Marshal(val)
			if err != nil {
				data[k] = fmt.Sprint(val)
				continue
			}
			data[k] = string(b)
		}
	}
	return data
}
