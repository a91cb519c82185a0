// Package ledger stores every administrator reply to a report in one text
// column. Replies are joined by a dated marker line and split back into
// individual replies for display, in-place editing and deletion.
package ledger

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "02/01/2006"

var (
	ErrEmptyReply      = errors.New("reply text must not be empty")
	ErrInvalidReplyID  = errors.New("reply id does not belong to this ledger")
	ErrIndexOutOfRange = errors.New("ledger changed concurrently, reload and retry")
	ErrReservedMarker  = errors.New("reply text must not contain a reply marker line")
)

// separatorPattern matches a reply marker together with the blank lines around it.
var separatorPattern = regexp.MustCompile(`\s*---\s*Nova resposta em\s*([\d/]+)\s*---\s*`)

// Reply is one logical reply decoded from a ledger.
type Reply struct {
	ID          string    `json:"id"`
	Index       int       `json:"index"`
	Text        string    `json:"text"`
	RepliedAt   time.Time `json:"replied_at"`
	Approximate bool      `json:"approximate"`
}

// Separator returns the marker placed before a reply appended on day.
func Separator(day time.Time) string {
	return separatorFor(day.Format(dateLayout))
}

func separatorFor(date string) string {
	return "\n\n--- Nova resposta em " + date + " ---\n\n"
}

// document is a ledger split at its markers. dates[i] is the date of the
// marker between segments[i] and segments[i+1].
type document struct {
	segments []string
	dates    []string
}

func parse(text string) document {
	matches := separatorPattern.FindAllStringSubmatchIndex(text, -1)
	doc := document{
		segments: make([]string, 0, len(matches)+1),
		dates:    make([]string, 0, len(matches)),
	}
	start := 0
	for _, m := range matches {
		doc.segments = append(doc.segments, strings.TrimSpace(text[start:m[0]]))
		doc.dates = append(doc.dates, text[m[2]:m[3]])
		start = m[1]
	}
	doc.segments = append(doc.segments, strings.TrimSpace(text[start:]))
	return doc
}

func (d document) String() string {
	var b strings.Builder
	b.WriteString(d.segments[0])
	for i, date := range d.dates {
		b.WriteString(separatorFor(date))
		b.WriteString(d.segments[i+1])
	}
	return b.String()
}

func (d document) count() int {
	n := 0
	for _, s := range d.segments {
		if s != "" {
			n++
		}
	}
	return n
}

// ReplyID derives the public id of the reply at index.
func ReplyID(ledgerID string, index int) string {
	if index == 0 {
		return ledgerID
	}
	return ledgerID + "-" + strconv.Itoa(index)
}

// ParseIndex is the inverse of ReplyID.
func ParseIndex(ledgerID, replyID string) (int, error) {
	if replyID == ledgerID {
		return 0, nil
	}
	suffix, ok := strings.CutPrefix(replyID, ledgerID+"-")
	if !ok {
		return 0, ErrInvalidReplyID
	}
	index, err := strconv.Atoi(suffix)
	if err != nil || index < 1 || strconv.Itoa(index) != suffix {
		return 0, ErrInvalidReplyID
	}
	return index, nil
}

// Decode splits a ledger into its replies, oldest first.
//
// The first reply carries repliedAt, the ledger's own modification time.
// Markers only record a calendar date, so later replies get that date with
// the time of day of now plus index minutes, which keeps them ordered after
// the first one. Such timestamps are flagged Approximate.
func Decode(ledgerID, text string, repliedAt, now time.Time) []Reply {
	doc := parse(text)
	if len(doc.dates) == 0 {
		body := strings.TrimSpace(text)
		if body == "" {
			return nil
		}
		return []Reply{{ID: ledgerID, Text: body, RepliedAt: repliedAt}}
	}

	replies := make([]Reply, 0, len(doc.segments))
	for i, segment := range doc.segments {
		if segment == "" {
			continue
		}
		reply := Reply{
			ID:        ReplyID(ledgerID, i),
			Index:     i,
			Text:      segment,
			RepliedAt: repliedAt,
		}
		if i > 0 {
			if at, ok := reconstruct(doc.dates[i-1], i, now); ok {
				reply.RepliedAt = at
				reply.Approximate = true
			}
		}
		replies = append(replies, reply)
	}
	return replies
}

func reconstruct(date string, index int, now time.Time) (time.Time, bool) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil || len(parts[2]) != 4 {
		return time.Time{}, false
	}
	at := time.Date(year, time.Month(month), day,
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
	if at.Day() != day || int(at.Month()) != month {
		return time.Time{}, false
	}
	return at.Add(time.Duration(index) * time.Minute), true
}

// checkReply rejects text that would not decode back as a single reply.
func checkReply(reply string) error {
	if reply == "" {
		return ErrEmptyReply
	}
	if separatorPattern.MatchString(reply) {
		return ErrReservedMarker
	}
	return nil
}

// Append adds reply to the end of existing. An empty existing text means the
// report had no ledger yet and the reply becomes its whole body.
func Append(existing, reply string, day time.Time) (string, error) {
	reply = strings.TrimSpace(reply)
	if err := checkReply(reply); err != nil {
		return "", err
	}
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return reply, nil
	}
	return existing + Separator(day) + reply, nil
}

// EditOne replaces the text of a single reply and keeps every marker,
// including its original date, in place.
func EditOne(text, ledgerID, replyID, replacement string) (string, error) {
	replacement = strings.TrimSpace(replacement)
	if err := checkReply(replacement); err != nil {
		return "", err
	}
	index, err := ParseIndex(ledgerID, replyID)
	if err != nil {
		return "", err
	}

	doc := parse(text)
	if index >= len(doc.segments) || doc.segments[index] == "" {
		return "", ErrIndexOutOfRange
	}
	if len(doc.dates) == 0 {
		return replacement, nil
	}
	doc.segments[index] = replacement
	return doc.String(), nil
}

// DeleteOne removes a single reply and the marker adjacent to it. It returns
// the new ledger text and the number of replies left; when none are left the
// text is empty and the ledger row should be deleted.
func DeleteOne(text, ledgerID, replyID string) (string, int, error) {
	index, err := ParseIndex(ledgerID, replyID)
	if err != nil {
		return "", 0, err
	}

	doc := parse(text)
	if index >= len(doc.segments) || doc.segments[index] == "" {
		return "", 0, ErrIndexOutOfRange
	}

	doc.segments = append(doc.segments[:index:index], doc.segments[index+1:]...)
	if len(doc.dates) > 0 {
		// the first reply takes the marker after it, every other reply the one before
		at := index - 1
		if index == 0 {
			at = 0
		}
		doc.dates = append(doc.dates[:at:at], doc.dates[at+1:]...)
	}

	remaining := doc.count()
	if remaining == 0 {
		return "", 0, nil
	}
	return doc.String(), remaining, nil
}

// Count returns the number of replies stored in text.
func Count(text string) int {
	return parse(text).count()
}
