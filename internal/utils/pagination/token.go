package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// encoding is URL safe because tokens travel as query parameters.
var encoding = base64.RawURLEncoding

// EncodeRecentToken creates an opaque token from the last row of a recent-activity page.
// Rows are ordered by (date, created_at, id) so all three are needed to resume.
func EncodeRecentToken(date time.Time, createdAt time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s|%s", date.UTC().Format(timeFormat), createdAt.UTC().Format(timeFormat), id)
	return encoding.EncodeToString([]byte(tokenStr))
}

// DecodeRecentToken parses a token produced by EncodeRecentToken.
func DecodeRecentToken(token string) (time.Time, time.Time, string, error) {
	decodedBytes, err := encoding.DecodeString(token)
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}

	createdAt, err := time.Parse(timeFormat, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, "", fmt.Errorf("invalid pagination token format (created_at parse): %w", err)
	}

	return date, createdAt, parts[2], nil
}
