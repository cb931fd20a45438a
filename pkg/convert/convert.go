// Package convert provides stock converters for the "as" registry.
//
// Converters are looked up by name from "{value:name}" interpolations:
//
//	<td>{total:int}</td>
//	<td>{price:float(2)}</td>
//	<input .value@change="{$qty:number}">
//	<article .innerHTML={body:markdown}></article>
//
// Number formatting and casing follow the language tag passed to Defaults.
package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/russross/blackfriday/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/funa-dev/funa/pkg/reactive"
	"github.com/funa-dev/funa/pkg/render"
)

// Defaults returns the stock converters for tag:
//
//	int       grouped integer; reverts grouped input to float64
//	float(n)  grouped number with n fraction digits (default 2)
//	number    grouped number as written; reverts like int
//	string    display form of any value
//	upper     upper case
//	lower     lower case
//	title     title case
//	markdown  HTML rendered from Markdown source
func Defaults(tag language.Tag) map[string]render.Converter {
	n := NewNumbers(tag)
	return map[string]render.Converter{
		"int":      {Convert: n.Int, Revert: n.Parse},
		"float":    {Convert: n.Float, Revert: n.Parse},
		"number":   {Convert: n.Number, Revert: n.Parse},
		"string":   {Convert: String},
		"upper":    {Convert: Casing(cases.Upper(tag))},
		"lower":    {Convert: Casing(cases.Lower(tag))},
		"title":    {Convert: Casing(cases.Title(tag))},
		"markdown": {Convert: Markdown},
	}
}

// =============================================================================
// Numbers
// =============================================================================

// Numbers formats and parses numbers for one language.
type Numbers struct {
	printer *message.Printer
	group   string
	decimal string
}

// NewNumbers returns number converters for tag.
func NewNumbers(tag language.Tag) *Numbers {
	p := message.NewPrinter(tag)
	n := &Numbers{printer: p, group: ",", decimal: "."}

	// Read the separators back from sample output.
	if s := []rune(p.Sprint(number.Decimal(1000))); len(s) == 5 {
		n.group = string(s[1])
	}
	if s := []rune(p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1)))); len(s) == 3 {
		n.decimal = string(s[1])
	}
	return n
}

// Int formats value rounded to an integer with digit grouping.
func (n *Numbers) Int(_, value any, _ ...any) (any, error) {
	f, ok, err := numeric(value)
	if !ok {
		return value, err
	}
	return n.printer.Sprint(number.Decimal(f, number.MaxFractionDigits(0))), nil
}

// Float formats value with a fixed number of fraction digits, taken from
// the first argument (default 2).
func (n *Numbers) Float(_, value any, args ...any) (any, error) {
	f, ok, err := numeric(value)
	if !ok {
		return value, err
	}
	digits := 2
	if len(args) > 0 && args[0] != nil {
		d, isNum := args[0].(float64)
		if !isNum || d < 0 {
			return nil, fmt.Errorf("float: fraction digits must be a non-negative number, got %v", args[0])
		}
		digits = int(d)
	}
	return n.printer.Sprint(number.Decimal(f,
		number.MinFractionDigits(digits),
		number.MaxFractionDigits(digits),
	)), nil
}

// Number formats value with digit grouping and as many fraction digits as
// it needs.
func (n *Numbers) Number(_, value any, _ ...any) (any, error) {
	f, ok, err := numeric(value)
	if !ok {
		return value, err
	}
	return n.printer.Sprint(number.Decimal(f, number.MaxFractionDigits(15))), nil
}

// Parse reads grouped input back into a float64. Empty input is nil.
func (n *Numbers) Parse(_, value any, _ ...any) (any, error) {
	s := strings.TrimSpace(reactive.String(value))
	if s == "" {
		return nil, nil
	}
	s = strings.ReplaceAll(s, n.group, "")
	if n.decimal != "." {
		s = strings.ReplaceAll(s, n.decimal, ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", reactive.String(value))
	}
	return f, nil
}

// numeric converts value to float64. nil passes through unformatted;
// other non-numbers are an error.
func numeric(value any) (float64, bool, error) {
	if value == nil {
		return 0, false, nil
	}
	if f, ok := reactive.Number(value); ok {
		return f, true, nil
	}
	if s, ok := value.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true, nil
		}
	}
	return 0, false, fmt.Errorf("not a number: %v", value)
}

// =============================================================================
// Text
// =============================================================================

// String converts any value to its display form.
func String(_, value any, _ ...any) (any, error) {
	return reactive.String(value), nil
}

// Casing returns a converter applying c to the display form of the value.
func Casing(c cases.Caser) func(data, value any, args ...any) (any, error) {
	return func(_, value any, _ ...any) (any, error) {
		return c.String(reactive.String(value)), nil
	}
}

// Markdown renders Markdown source to HTML. Bind it to the innerHTML
// property; as text the markup is shown escaped.
func Markdown(_, value any, _ ...any) (any, error) {
	return string(blackfriday.Run([]byte(reactive.String(value)))), nil
}
