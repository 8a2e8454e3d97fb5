package engine

import (
	"fmt"
	"strings"
)

// ParseOrder parses one order in the compact DATC-style notation that
// Order.Describe produces (e.g. "A par - bur", "F nth C A lon - bel",
// "AUS: waive"), for the submitting country. It checks only syntax;
// legality against the current state and map is ValidateOrder's job.
func ParseOrder(country, text string) (Order, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Order{}, fmt.Errorf("dson: empty order")
	}
	if rest, ok := strings.CutSuffix(text, ": waive"); ok {
		return Order{Kind: OrderPass, Country: strings.TrimSpace(rest)}, nil
	}
	if province, ok := strings.CutSuffix(text, ": cancel"); ok {
		return Order{Kind: OrderCancel, Country: country, Province: strings.TrimSpace(province)}, nil
	}

	tokens := strings.Fields(text)
	if len(tokens) < 3 {
		return Order{}, fmt.Errorf("dson: too few tokens in %q", text)
	}

	unitType, err := parseUnitChar(tokens[0])
	if err != nil {
		return Order{}, err
	}
	province, coast := splitCoast(tokens[1])
	o := Order{Country: country, UnitType: unitType, Province: province, Coast: coast}

	action, rest := tokens[2], tokens[3:]
	switch action {
	case "H":
		o.Kind = OrderHold

	case "-", "^":
		if len(rest) < 1 {
			return Order{}, fmt.Errorf("dson: move missing destination in %q", text)
		}
		o.Kind = OrderMove
		o.IsConvoy = action == "^"
		o.Dest, o.DestCoast = splitCoast(rest[0])

	case "S":
		switch {
		case len(rest) == 2 && rest[1] == "H":
			o.Kind = OrderSupportHold
			o.Supporting = rest[0]
		case len(rest) == 3 && rest[1] == "-":
			o.Kind = OrderSupportMove
			o.From = rest[0]
			o.Supporting = rest[2]
		default:
			return Order{}, fmt.Errorf("dson: malformed support in %q", text)
		}

	case "C":
		if len(rest) != 4 || rest[0] != "A" || rest[2] != "-" {
			return Order{}, fmt.Errorf("dson: malformed convoy in %q", text)
		}
		o.Kind = OrderConvoy
		o.Start = rest[1]
		o.End = rest[3]

	case "R":
		if len(rest) < 1 {
			return Order{}, fmt.Errorf("dson: retreat missing destination in %q", text)
		}
		o.Kind = OrderRetreat
		o.Dest, o.DestCoast = splitCoast(rest[0])

	case "D":
		o.Kind = OrderDisband

	case "B":
		o.Kind = OrderBuild

	default:
		return Order{}, fmt.Errorf("dson: unknown action %q in %q", action, text)
	}
	return o, nil
}

// FormatOrders renders a batch of orders as a single DSON line, orders
// separated by " ; ".
func FormatOrders(orders []Order) string {
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = o.Describe()
	}
	return strings.Join(parts, " ; ")
}

// ParseOrders parses a " ; "-separated DSON line submitted by one country.
func ParseOrders(country, line string) ([]Order, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}
	var out []Order
	for _, part := range strings.Split(line, " ; ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		o, err := ParseOrder(country, part)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func parseUnitChar(s string) (UnitType, error) {
	switch s {
	case "A":
		return Army, nil
	case "F":
		return Fleet, nil
	default:
		return NoUnit, fmt.Errorf("dson: invalid unit letter %q (expected A or F)", s)
	}
}

// splitCoast splits "stp/nc" into ("stp", "nc"); a token with no slash
// returns an empty coast.
func splitCoast(tok string) (province, coast string) {
	if i := strings.IndexByte(tok, '/'); i >= 0 {
		return tok[:i], tok[i+1:]
	}
	return tok, ""
}
