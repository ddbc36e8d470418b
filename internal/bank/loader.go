// Package bank loads subject banks: a flashcard deck plus a question pool,
// read from <dir>/<subject>.json.
package bank

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultSubject = "default"
	BuiltinSubject = "builtin"
)

var (
	// ErrNotFound means no bank file exists for the subject.
	ErrNotFound = errors.New("bank not found")

	// ErrInvalidSubject means the subject name is not a plain file stem.
	ErrInvalidSubject = errors.New("invalid subject name")

	// ErrEmptyPool means the bank has neither cards nor questions.
	ErrEmptyPool = errors.New("bank has no cards and no questions")
)

type file struct {
	Title     string     `json:"title"`
	Cards     []Card     `json:"cards"`
	Questions []Question `json:"questions"`
}

// Loader reads banks from a directory.
type Loader struct {
	dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Path returns the file a subject resolves to.
func (l *Loader) Path(subject string) string {
	return filepath.Join(l.dir, subject+".json")
}

// Load reads and validates the bank for subject. An empty subject means the
// default bank; "builtin" returns the embedded bank.
func (l *Loader) Load(subject string) (*Bank, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	if subject == BuiltinSubject {
		return Builtin()
	}
	if err := checkSubject(subject); err != nil {
		return nil, err
	}

	path := l.Path(subject)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "subject %q (%s)", subject, path)
		}
		return nil, errors.Wrapf(err, "read bank %s", path)
	}
	b, err := Parse(subject, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "load bank %s", path)
	}
	return b, nil
}

// Subjects lists the subjects available in the directory, sorted.
func (l *Loader) Subjects() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "list banks in %s", l.dir)
	}
	var subjects []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		subjects = append(subjects, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(subjects)
	return subjects, nil
}

// Parse validates raw bank JSON and builds a Bank from it.
func Parse(subject string, raw []byte) (*Bank, error) {
	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(err, "decode bank")
	}
	if len(f.Cards) == 0 && len(f.Questions) == 0 {
		return nil, ErrEmptyPool
	}
	if err := checkCards(f.Cards); err != nil {
		return nil, err
	}
	if err := checkQuestions(f.Questions); err != nil {
		return nil, err
	}

	title := f.Title
	if title == "" {
		title = subject
	}
	return &Bank{
		Subject:   subject,
		Title:     title,
		Deck:      NewDeck(f.Cards),
		Questions: NewQuestionBank(f.Questions),
	}, nil
}

func checkSubject(subject string) error {
	if subject == "." || subject == ".." || strings.ContainsAny(subject, `/\`) || filepath.Base(subject) != subject {
		return errors.Wrapf(ErrInvalidSubject, "%q", subject)
	}
	return nil
}

func checkCards(cards []Card) error {
	seen := make(map[string]bool, len(cards))
	for i, c := range cards {
		if seen[c.ID] {
			return errors.Errorf("card %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

func checkQuestions(qs []Question) error {
	seen := make(map[string]int, len(qs))
	for i, q := range qs {
		if q.Type == TypeChoice && (q.Answer.Index < 0 || q.Answer.Index >= len(q.Options)) {
			return errors.Errorf("question %d: answer index %d outside %d options", i, q.Answer.Index, len(q.Options))
		}
		if j, dup := seen[q.ID()]; dup {
			return errors.Errorf("question %d: duplicates question %d", i, j)
		}
		seen[q.ID()] = i
	}
	return nil
}
