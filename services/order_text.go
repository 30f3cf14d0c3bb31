package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"snackshop-line/models"
)

const (
	noteKeyword = "備註"

	MinQuantity = 1
	MaxQuantity = 20
)

type ParseErrorKind int

const (
	// ParseErrBadSegment: a non-empty segment that is not "<id> x <qty>".
	ParseErrBadSegment ParseErrorKind = iota
	// ParseErrUnknownItem: the id resolves to no menu item.
	ParseErrUnknownItem
	// ParseErrBadQuantity: quantity missing, non-numeric or outside [1,20].
	ParseErrBadQuantity
	// ParseErrNoItems: nothing orderable before the note keyword.
	ParseErrNoItems
)

// ParseError is a user-facing validation failure; Error() is the exact text
// sent back to the customer, naming the offending segment.
type ParseError struct {
	Kind    ParseErrorKind
	Segment string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseErrBadSegment:
		return fmt.Sprintf("看不懂「%s」，請用「編號 x數量」格式，例如：1 x2", e.Segment)
	case ParseErrUnknownItem:
		return fmt.Sprintf("「%s」：沒有這個餐點編號，輸入「菜單」查看編號", e.Segment)
	case ParseErrBadQuantity:
		return fmt.Sprintf("「%s」：數量必須是 %d 到 %d 之間的數字", e.Segment, MinQuantity, MaxQuantity)
	default:
		return "訂單中沒有有效的餐點"
	}
}

// ParsedOrder is a fully priced order text.
type ParsedOrder struct {
	Lines []string // "滷肉飯 x2", in input order; duplicate ids are not merged
	Total int64
	Notes string
}

// ItemsText joins the lines the way the orders table stores them.
func (p *ParsedOrder) ItemsText() string {
	return strings.Join(p.Lines, ", ")
}

var (
	// × is what Chinese IMEs often produce for the multiplication sign.
	segmentRe = regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*(\d+)$`)
	// Looser shape used only to tell "bad quantity" apart from garbage.
	quantityShapeRe = regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*(\S+)$`)
)

// ParseOrderText turns free-form chat text like "1 x2, 3 x1 備註不要辣"
// into priced order lines plus an optional note. Everything after 備註 is
// the note; the rest is comma-separated "<id> x <qty>" segments. Any invalid
// segment fails the whole order; nothing is persisted on error.
func ParseOrderText(menu []models.MenuItem, text string) (*ParsedOrder, error) {
	itemsPart := text
	notes := ""
	if i := strings.Index(text, noteKeyword); i >= 0 {
		itemsPart = text[:i]
		notes = SanitizeNote(text[i+len(noteKeyword):])
	}

	byID := menuByID(menu)
	parsed := &ParsedOrder{Notes: notes}

	for _, seg := range splitSegments(itemsPart) {
		m := segmentRe.FindStringSubmatch(seg)
		if m == nil {
			if quantityShapeRe.MatchString(seg) {
				// "1 xab": the item part is fine, the quantity is not.
				return nil, &ParseError{Kind: ParseErrBadQuantity, Segment: seg}
			}
			return nil, &ParseError{Kind: ParseErrBadSegment, Segment: seg}
		}
		id, _ := strconv.ParseInt(m[1], 10, 64)
		qty, err := strconv.Atoi(m[2])
		if err != nil || qty < MinQuantity || qty > MaxQuantity {
			return nil, &ParseError{Kind: ParseErrBadQuantity, Segment: seg}
		}
		item, ok := byID[id]
		if !ok {
			return nil, &ParseError{Kind: ParseErrUnknownItem, Segment: seg}
		}
		parsed.Lines = append(parsed.Lines, fmt.Sprintf("%s x%d", item.Name, qty))
		parsed.Total += item.Price * int64(qty)
	}

	if len(parsed.Lines) == 0 {
		return nil, &ParseError{Kind: ParseErrNoItems}
	}
	return parsed, nil
}

// PriceLines prices the structured {id, quantity} payload from the web form,
// applying the same quantity and item checks as the chat path.
func PriceLines(menu []models.MenuItem, items []models.OrderLine) (*ParsedOrder, error) {
	byID := menuByID(menu)
	parsed := &ParsedOrder{}
	for _, line := range items {
		seg := fmt.Sprintf("%d x%d", line.MenuItemID, line.Quantity)
		if line.Quantity < MinQuantity || line.Quantity > MaxQuantity {
			return nil, &ParseError{Kind: ParseErrBadQuantity, Segment: seg}
		}
		item, ok := byID[line.MenuItemID]
		if !ok {
			return nil, &ParseError{Kind: ParseErrUnknownItem, Segment: seg}
		}
		parsed.Lines = append(parsed.Lines, fmt.Sprintf("%s x%d", item.Name, line.Quantity))
		parsed.Total += item.Price * int64(line.Quantity)
	}
	if len(parsed.Lines) == 0 {
		return nil, &ParseError{Kind: ParseErrNoItems}
	}
	return parsed, nil
}

var (
	productQtyRe   = regexp.MustCompile(`(?i)^(.*?)\s*x\s*(\d+)$`)
	productPriceRe = regexp.MustCompile(`\s*\$\d+$`)
)

// PriceProductText prices the legacy free-text "product" field older form
// clients send, e.g. "滷肉飯 x2, 蚵仔煎 x1" or "滷肉飯 $35". Items are
// resolved by menu name; prices embedded in the text are ignored.
func PriceProductText(menu []models.MenuItem, product string) (*ParsedOrder, error) {
	parsed := &ParsedOrder{}
	for _, seg := range splitSegments(product) {
		name := productPriceRe.ReplaceAllString(seg, "")
		qty := 1
		if m := productQtyRe.FindStringSubmatch(name); m != nil {
			name = strings.TrimSpace(m[1])
			qty, _ = strconv.Atoi(m[2])
		}
		if qty < MinQuantity || qty > MaxQuantity {
			return nil, &ParseError{Kind: ParseErrBadQuantity, Segment: seg}
		}
		item, ok := menuByName(menu, name)
		if !ok {
			return nil, &ParseError{Kind: ParseErrUnknownItem, Segment: seg}
		}
		parsed.Lines = append(parsed.Lines, fmt.Sprintf("%s x%d", item.Name, qty))
		parsed.Total += item.Price * int64(qty)
	}
	if len(parsed.Lines) == 0 {
		return nil, &ParseError{Kind: ParseErrNoItems}
	}
	return parsed, nil
}

func splitSegments(s string) []string {
	raw := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '，' })
	var out []string
	for _, seg := range raw {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// SanitizeNote strips angle brackets so a note can never smuggle markup into
// an order record or a reply message.
func SanitizeNote(note string) string {
	note = strings.NewReplacer("<", "", ">", "").Replace(note)
	return strings.TrimSpace(note)
}

func menuByID(menu []models.MenuItem) map[int64]models.MenuItem {
	byID := make(map[int64]models.MenuItem, len(menu))
	for _, it := range menu {
		byID[it.ID] = it
	}
	return byID
}

func menuByName(menu []models.MenuItem, name string) (models.MenuItem, bool) {
	for _, it := range menu {
		if it.Name == name {
			return it, true
		}
	}
	return models.MenuItem{}, false
}
