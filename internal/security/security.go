package security

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/IllumiKnowLabs/execgate/pkg/constants"
)

const Redacted = "**REDACTED**"
const truncateLength = 7

// Trunc shortens a sensitive value so that it can be logged without
// disclosing it. Values at or below the truncation length are fully redacted.
func Trunc(sensitive string) string {
	if len(sensitive) > truncateLength {
		return fmt.Sprintf("%s...%s", sensitive[:truncateLength], Redacted)
	}

	if len(sensitive) == 0 {
		return constants.Empty
	}

	return Redacted
}

// TruncParamHeader redacts the value of a single key=value parameter inside a
// structured header, e.g. the Signature parameter of an Authorization header.
func TruncParamHeader(header, key string) string {
	re := regexp.MustCompile(fmt.Sprintf(`(?i)\b(%s)=(.*)\b`, key))

	truncated := re.ReplaceAllStringFunc(header, func(match string) string {
		sub := re.FindStringSubmatch(match)

		if len(sub) >= 3 {
			return fmt.Sprintf("%s=%s", sub[1], Trunc(sub[2]))
		}

		return match
	})

	return truncated
}

func TruncLastLine(sensitive string) string {
	return TruncLastLines(sensitive, 1)
}

func TruncLastLines(sensitive string, n int) string {
	lines := strings.Split(sensitive, "\n")

	lastIdx := len(lines) - n

	for idx := len(lines) - 1; idx >= lastIdx && idx >= 0; idx-- {
		lines[idx] = Trunc(lines[idx])
	}

	return strings.Join(lines, "\n")
}
