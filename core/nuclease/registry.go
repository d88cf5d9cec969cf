package nuclease

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"grna/core/iupac"
)

var ErrUnknownSystem = errors.New("unknown nuclease system")

// UnknownSystemError names a system that is not registered.
type UnknownSystemError struct {
	Name string
}

func (e *UnknownSystemError) Error() string {
	return fmt.Sprintf("unknown nuclease system %q (available: %s)", e.Name, strings.Join(Names(), ", "))
}

func (e *UnknownSystemError) Is(target error) bool { return target == ErrUnknownSystem }

var (
	SpCas9 = System{
		Name:        "SpCas9",
		PAM:         "NGG",
		Pattern:     iupac.MustCompile("NGG"),
		GuideLen:    20,
		MinGuideLen: 20,
		MaxGuideLen: 20,
		Side:        ThreePrime,
		CutOffset:   3,
		Aliases:     []string{"cas9", "spcas9 (ngg)"},
		Description: "Streptococcus pyogenes Cas9; blunt cut 3 bp upstream of the PAM",
	}
	SaCas9 = System{
		Name:        "SaCas9",
		PAM:         "NNGRRT",
		Pattern:     iupac.MustCompile("NNGRRT"),
		GuideLen:    21,
		MinGuideLen: 21,
		MaxGuideLen: 21,
		Side:        ThreePrime,
		CutOffset:   3,
		Aliases:     []string{"sacas9 (nngrrt)"},
		Description: "Staphylococcus aureus Cas9; blunt cut 3 bp upstream of the PAM",
	}
	Cas12a = System{
		Name:        "Cas12a",
		PAM:         "TTTV",
		Pattern:     iupac.MustCompile("TTTV"),
		GuideLen:    20,
		MinGuideLen: 20,
		MaxGuideLen: 23,
		Side:        FivePrime,
		CutOffset:   18,
		Aliases:     []string{"cpf1", "cas12a (tttv)"},
		Description: "Cas12a (Cpf1); staggered cut distal to the PAM after guide position 18",
	}
)

var registry = map[string]System{}

func init() {
	for _, s := range []System{SpCas9, SaCas9, Cas12a} {
		registry[strings.ToLower(s.Name)] = s
		for _, a := range s.Aliases {
			registry[strings.ToLower(a)] = s
		}
	}
}

// Lookup resolves a system by name or alias, case-insensitively.
func Lookup(name string) (System, error) {
	if s, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return System{}, &UnknownSystemError{Name: name}
}

// All returns the registered systems sorted by name.
func All() []System {
	out := []System{SpCas9, SaCas9, Cas12a}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the canonical system names, sorted.
func Names() []string {
	all := All()
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.Name
	}
	return out
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) System {
	s, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return s
}
