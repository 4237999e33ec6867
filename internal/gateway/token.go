package gateway

import (
	"encoding/json"
	"fmt"
)

// tokenFields is the versioned contract for where a login response may carry
// its token. Deployed backends have answered with several names over time;
// precedence is this exact order and nothing else is consulted.
var tokenFields = []string{"access_token", "token", "jwt", "access"}

func tokenFromLogin(raw []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	for _, name := range tokenFields {
		value, ok := fields[name]
		if !ok {
			continue
		}
		var token string
		if err := json.Unmarshal(value, &token); err != nil || token == "" {
			continue
		}
		return token, nil
	}
	return "", fmt.Errorf("login response contains no token")
}
