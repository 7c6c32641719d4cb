package query

import "unionbind/internal/match"

//go:generate go tool stringer -type=Mode -trimprefix=Mode -output=mode_string.go

// Mode controls what a generated function does when no Case matches.
type Mode int

const (
	ModeOption Mode = iota
	ModeStrict
	ModeUnwrap
	ModeVec
)

var modes = map[string]Mode{
	ModeOption.String(): ModeOption,
	ModeStrict.String(): ModeStrict,
	ModeUnwrap.String(): ModeUnwrap,
	ModeVec.String():    ModeVec,
}

// ParseMode returns the Mode named by keyword.
func ParseMode(keyword string) (Mode, bool) {
	m, ok := modes[keyword]
	return m, ok
}

// suggestMode returns mode keywords close to keyword.
func suggestMode(keyword string) []string {
	return match.Suggest(keyword, []string{
		ModeOption.String(), ModeStrict.String(), ModeUnwrap.String(), ModeVec.String(),
	})
}
