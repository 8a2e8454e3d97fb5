package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

var phaseToChar = map[Phase]byte{
	CountryClaiming:    'c',
	OrderWriting:       'm',
	Retreating:         'r',
	CreatingDisbanding: 'b',
}

var charToPhase = map[byte]Phase{
	'c': CountryClaiming,
	'm': OrderWriting,
	'r': Retreating,
	'b': CreatingDisbanding,
}

var seasonToChar = map[Season]byte{Spring: 's', Fall: 'f'}
var charToSeason = map[byte]Season{'s': Spring, 'f': Fall}

// EncodeBoard renders the board-state portion of a game (date, season,
// phase, units, supply center ownership, dislodgements) as a single-line,
// deterministic string in the style of a FEN record: four '/'-separated
// sections, countries within each section sorted alphabetically and
// provinces sorted within each country.
func EncodeBoard(phase Phase, s *State) string {
	var b strings.Builder
	b.Grow(256)

	b.WriteString(strconv.Itoa(s.Date))
	b.WriteByte(seasonToChar[s.Season])
	b.WriteByte(phaseToChar[phase])
	b.WriteByte('/')
	encodeUnits(&b, s)
	b.WriteByte('/')
	encodeSupplyCenters(&b, s)
	b.WriteByte('/')
	encodeDislodgements(&b, s)

	return b.String()
}

func countryOrder(s *State) []string {
	countries := make([]string, 0, len(s.Nations))
	for c := range s.Nations {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	return countries
}

func encodeUnitLocation(b *strings.Builder, province, coast string) {
	b.WriteString(province)
	if coast != "" {
		b.WriteByte('.')
		b.WriteString(coast)
	}
}

func unitTypeChar(t UnitType) byte {
	if t == Fleet {
		return 'f'
	}
	return 'a'
}

func encodeUnits(b *strings.Builder, s *State) {
	wrote := false
	for _, country := range countryOrder(s) {
		units := append([]Unit(nil), s.Nations[country].Units...)
		sort.Slice(units, func(i, j int) bool { return units[i].Province < units[j].Province })
		for _, u := range units {
			if wrote {
				b.WriteByte(',')
			}
			wrote = true
			b.WriteString(country)
			b.WriteByte(':')
			b.WriteByte(unitTypeChar(u.Type))
			encodeUnitLocation(b, u.Province, u.Coast)
		}
	}
	if !wrote {
		b.WriteByte('-')
	}
}

func encodeSupplyCenters(b *strings.Builder, s *State) {
	wrote := false
	for _, country := range countryOrder(s) {
		scs := make([]string, 0, len(s.Nations[country].SupplyCenters))
		for sc := range s.Nations[country].SupplyCenters {
			scs = append(scs, sc)
		}
		sort.Strings(scs)
		for _, sc := range scs {
			if wrote {
				b.WriteByte(',')
			}
			wrote = true
			b.WriteString(country)
			b.WriteByte(':')
			b.WriteString(sc)
		}
	}
	if !wrote {
		b.WriteByte('-')
	}
}

func encodeDislodgements(b *strings.Builder, s *State) {
	if len(s.Dislodgements) == 0 {
		b.WriteByte('-')
		return
	}
	provinces := make([]string, 0, len(s.Dislodgements))
	for p := range s.Dislodgements {
		provinces = append(provinces, p)
	}
	sort.Strings(provinces)

	for i, p := range provinces {
		if i > 0 {
			b.WriteByte(',')
		}
		d := s.Dislodgements[p]
		b.WriteString(d.Country)
		b.WriteByte(':')
		b.WriteByte(unitTypeChar(d.Unit.Type))
		encodeUnitLocation(b, d.Unit.Province, d.Unit.Coast)
		b.WriteByte('<')
		if d.From == "" {
			b.WriteByte('-')
		} else {
			b.WriteString(d.From)
		}
	}
}

// DecodedBoard is what DecodeBoard can recover without consulting a Map:
// enough to drive a display or a test fixture, not a playable Game.
type DecodedBoard struct {
	Date   int
	Season Season
	Phase  Phase
	State  *State
}

// DecodeBoard parses a line produced by EncodeBoard.
func DecodeBoard(line string) (*DecodedBoard, error) {
	parts := strings.SplitN(line, "/", 4)
	if len(parts) != 4 {
		return nil, fmt.Errorf("dfen: expected 4 '/'-separated sections, got %d", len(parts))
	}

	date, season, phase, err := decodePhaseInfo(parts[0])
	if err != nil {
		return nil, err
	}
	s := newState(date, season)

	if err := decodeUnits(parts[1], s); err != nil {
		return nil, err
	}
	if err := decodeSupplyCenters(parts[2], s); err != nil {
		return nil, err
	}
	if err := decodeDislodgements(parts[3], s); err != nil {
		return nil, err
	}

	return &DecodedBoard{Date: date, Season: season, Phase: phase, State: s}, nil
}

func decodePhaseInfo(s string) (int, Season, Phase, error) {
	if len(s) < 3 {
		return 0, "", "", fmt.Errorf("dfen: phase info too short: %q", s)
	}
	phaseChar := s[len(s)-1]
	seasonChar := s[len(s)-2]
	yearStr := s[:len(s)-2]

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return 0, "", "", fmt.Errorf("dfen: invalid date %q: %w", yearStr, err)
	}
	season, ok := charToSeason[seasonChar]
	if !ok {
		return 0, "", "", fmt.Errorf("dfen: invalid season %q", string(seasonChar))
	}
	phase, ok := charToPhase[phaseChar]
	if !ok {
		return 0, "", "", fmt.Errorf("dfen: invalid phase %q", string(phaseChar))
	}
	return year, season, phase, nil
}

func nationFor(s *State, country string) *Nation {
	n, ok := s.Nations[country]
	if !ok {
		n = newNation()
		s.Nations[country] = n
	}
	return n
}

func decodeUnits(s string, st *State) error {
	if s == "-" {
		return nil
	}
	for _, entry := range strings.Split(s, ",") {
		country, rest, ok := strings.Cut(entry, ":")
		if !ok || len(rest) < 2 {
			return fmt.Errorf("dfen: invalid unit entry %q", entry)
		}
		var t UnitType
		switch rest[0] {
		case 'a':
			t = Army
		case 'f':
			t = Fleet
		default:
			return fmt.Errorf("dfen: invalid unit type in %q", entry)
		}
		province, coast := splitDFENLocation(rest[1:])
		n := nationFor(st, country)
		n.Units = append(n.Units, Unit{Type: t, Country: country, Province: province, Coast: coast})
	}
	return nil
}

func decodeSupplyCenters(s string, st *State) error {
	if s == "-" {
		return nil
	}
	for _, entry := range strings.Split(s, ",") {
		country, prov, ok := strings.Cut(entry, ":")
		if !ok {
			return fmt.Errorf("dfen: invalid supply center entry %q", entry)
		}
		n := nationFor(st, country)
		n.SupplyCenters[prov] = true
	}
	return nil
}

func decodeDislodgements(s string, st *State) error {
	if s == "-" {
		return nil
	}
	for _, entry := range strings.Split(s, ",") {
		unitPart, from, ok := strings.Cut(entry, "<")
		if !ok {
			return fmt.Errorf("dfen: invalid dislodgement entry %q", entry)
		}
		country, rest, ok := strings.Cut(unitPart, ":")
		if !ok || len(rest) < 2 {
			return fmt.Errorf("dfen: invalid dislodgement unit %q", unitPart)
		}
		var t UnitType
		switch rest[0] {
		case 'a':
			t = Army
		case 'f':
			t = Fleet
		default:
			return fmt.Errorf("dfen: invalid unit type in %q", unitPart)
		}
		province, coast := splitDFENLocation(rest[1:])
		if from == "-" {
			from = ""
		}
		st.Dislodgements[province] = Dislodgement{
			Unit:    Unit{Type: t, Country: country, Province: province, Coast: coast},
			From:    from,
			Country: country,
		}
	}
	return nil
}

func splitDFENLocation(s string) (province, coast string) {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}
