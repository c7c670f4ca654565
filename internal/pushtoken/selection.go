package pushtoken

import "strings"

// minFCMTokenLength guards the FCM-shaped fields against placeholder values.
const minFCMTokenLength = 20

// Rule extracts a candidate token from an entry.
type Rule struct {
	Name    string
	Extract func(*Entry) string
	Accept  func(*Entry, string) bool
}

func longerThan(n int) func(*Entry, string) bool {
	return func(_ *Entry, token string) bool { return len(token) > n }
}

func nonBlank(_ *Entry, token string) bool { return token != "" }

// SelectionRules is the precedence table for picking an entry's token.
// Rules are evaluated in order and the first accepted value wins.
var SelectionRules = []Rule{
	{
		Name:    "deviceToken",
		Extract: func(e *Entry) string { return e.DeviceToken },
		Accept:  longerThan(minFCMTokenLength),
	},
	{
		Name:    "fcmToken",
		Extract: func(e *Entry) string { return e.FCMToken },
		Accept:  longerThan(minFCMTokenLength),
	},
	{
		Name:    "token[tokenType=fcm]",
		Extract: func(e *Entry) string { return e.Token },
		Accept: func(e *Entry, token string) bool {
			return e.TokenType == "fcm" && len(token) > minFCMTokenLength
		},
	},
	{
		Name:    "expoToken",
		Extract: func(e *Entry) string { return e.ExpoToken },
		Accept:  nonBlank,
	},
	{
		Name:    "token",
		Extract: func(e *Entry) string { return e.Token },
		Accept:  nonBlank,
	},
}

// BestToken returns the entry's token per SelectionRules and the name of the
// rule that matched. Both are empty when no rule matches.
func BestToken(e *Entry) (token, rule string) {
	if e == nil {
		return "", ""
	}
	for _, r := range SelectionRules {
		candidate := strings.TrimSpace(r.Extract(e))
		if r.Accept(e, candidate) {
			return candidate, r.Name
		}
	}
	return "", ""
}

// Tokens applies BestToken to each entry, dropping entries without a token.
// Entry order is preserved.
func Tokens(entries []*Entry) []string {
	tokens := make([]string, 0, len(entries))
	for _, e := range entries {
		if token, _ := BestToken(e); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
