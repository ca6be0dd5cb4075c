// Package i18n holds the immutable per-language string table used to render
// bot screens. A catalog is loaded once from YAML and checked for
// completeness before it is handed out.
package i18n

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrUnknownKey      = errors.New("unknown message key")
	ErrIncomplete      = errors.New("incomplete catalog")
)

// Message keys every language must define.
const (
	KeyName             = "name"
	KeyWelcome          = "welcome"
	KeyGreeting         = "greeting"
	KeyBegin            = "begin"
	KeyChooseLanguage   = "choose_language"
	KeyMainMenu         = "main_menu"
	KeyChannel          = "channel"
	KeyAdmin            = "admin"
	KeyRegister         = "register"
	KeyRegisterContact  = "register_contact"
	KeyEducationInfo    = "education_info"
	KeyEducationDetails = "education_details"
	KeyRestart          = "restart"
	KeyMiniApp          = "mini_app"
	KeyBack             = "back"
)

var RequiredKeys = []string{
	KeyName, KeyWelcome, KeyGreeting, KeyBegin, KeyChooseLanguage, KeyMainMenu,
	KeyChannel, KeyAdmin, KeyRegister, KeyRegisterContact, KeyEducationInfo,
	KeyEducationDetails, KeyRestart, KeyMiniApp, KeyBack,
}

//go:embed locales.yaml
var defaultLocales []byte

type fileLanguage struct {
	Code     string            `yaml:"code"`
	Messages map[string]string `yaml:"messages"`
}

type file struct {
	Fallback  string         `yaml:"fallback"`
	Languages []fileLanguage `yaml:"languages"`
}

type Catalog struct {
	fallback string
	order    []string
	messages map[string]map[string]string
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultLocales)
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open locales file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var raw file
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode locales: %w", err)
	}

	c := &Catalog{
		fallback: raw.Fallback,
		messages: make(map[string]map[string]string, len(raw.Languages)),
	}
	for _, l := range raw.Languages {
		if l.Code == "" {
			return nil, fmt.Errorf("%w: language without code", ErrIncomplete)
		}
		if _, dup := c.messages[l.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate language %q", ErrIncomplete, l.Code)
		}
		c.order = append(c.order, l.Code)
		c.messages[l.Code] = l.Messages
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate enforces that every language defines every required key, and that
// no language carries a key the others lack.
func (c *Catalog) validate() error {
	if len(c.order) == 0 {
		return fmt.Errorf("%w: no languages", ErrIncomplete)
	}
	if _, ok := c.messages[c.fallback]; !ok {
		return fmt.Errorf("%w: fallback language %q is not defined", ErrIncomplete, c.fallback)
	}

	keys := make(map[string]struct{}, len(RequiredKeys))
	for _, k := range RequiredKeys {
		keys[k] = struct{}{}
	}
	for _, msgs := range c.messages {
		for k := range msgs {
			keys[k] = struct{}{}
		}
	}

	var problems []string
	for _, code := range c.order {
		for k := range keys {
			if strings.TrimSpace(c.messages[code][k]) == "" {
				problems = append(problems, code+"."+k)
			}
		}
	}
	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: missing %s", ErrIncomplete, strings.Join(problems, ", "))
	}
	return nil
}

func (c *Catalog) Resolve(lang, key string) (string, error) {
	msgs, ok := c.messages[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	msg, ok := msgs[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return msg, nil
}

// Languages returns the supported codes in catalog order.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) Supports(lang string) bool {
	_, ok := c.messages[lang]
	return ok
}

func (c *Catalog) Fallback() string {
	return c.fallback
}

// Keys returns every message key, sorted.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.messages[c.fallback]))
	for k := range c.messages[c.fallback] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
