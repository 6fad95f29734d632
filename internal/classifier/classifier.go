// Package classifier назначает категорию и серьезность по ключевым словам.
// Правила проверяются в фиксированном порядке, первое совпадение определяет результат.
package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	CategoryTerrorism      = "terrorism"
	CategoryArmedConflict  = "armed_conflict"
	CategoryCivilUnrest    = "civil_unrest"
	CategoryDisinformation = "disinformation"
	CategoryGeneral        = "general"
)

const (
	// BaseConfidence - уверенность для автоматически классифицированных сообщений
	BaseConfidence = 30
	// FallbackConfidence - уверенность, когда ни одно правило не сработало
	FallbackConfidence = 15
	// FallbackSeverity - серьезность категории general
	FallbackSeverity = 2
)

// Result - итог классификации текста
type Result struct {
	Category       string `json:"category"`
	Severity       int    `json:"severity"`
	BaseConfidence int    `json:"base_confidence"`
}

// Rule - одно правило: предикат над текстом в нижнем регистре, категория и серьезность
type Rule struct {
	Category string
	Severity int
	Match    func(lower string) bool
}

// Keywords строит предикат, срабатывающий на любое из слов. Слово совпадает
// только целиком; "*" в конце задает основу, после которой допустимо окончание
// ("mobiliz*" находит "mobilization"). Фразы из нескольких слов допустимы.
func Keywords(words ...string) func(string) bool {
	type keyword struct {
		text string
		stem bool
	}
	kws := make([]keyword, 0, len(words))
	for _, w := range words {
		stem := strings.HasSuffix(w, "*")
		kws = append(kws, keyword{text: strings.ToLower(strings.TrimSuffix(w, "*")), stem: stem})
	}
	return func(lower string) bool {
		for _, kw := range kws {
			if containsWord(lower, kw.text, kw.stem) {
				return true
			}
		}
		return false
	}
}

func containsWord(text, word string, stem bool) bool {
	if word == "" {
		return false
	}
	for offset := 0; offset < len(text); {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		if boundaryBefore(text, start) && (stem || boundaryAfter(text, end)) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// DefaultRules - порядок важен: насилие и терроризм, эскалация, беспорядки, дезинформация
var DefaultRules = []Rule{
	{
		Category: CategoryTerrorism,
		Severity: 5,
		Match: Keywords(
			"terror*", "bomb", "bombs", "bombing*", "bomber*", "explosion*", "explosive*",
			"suicide", "attack", "attacks", "attacked", "attacker*", "hostage*",
			"massacre*", "gunmen", "gunman", "assassinat*", "beheading*",
		),
	},
	{
		Category: CategoryArmedConflict,
		Severity: 4,
		Match: Keywords(
			"armed forces", "armed group*", "armed men", "mobiliz*", "mobilis*", "troops",
			"militia*", "artillery", "missile*", "airstrike*", "air strike*", "shelling",
			"clashes", "military offensive", "counteroffensive", "battle tank*", "drone strike*",
			"drone attack*",
		),
	},
	{
		Category: CategoryCivilUnrest,
		Severity: 3,
		Match: Keywords(
			"protest*", "riot", "riots", "rioting", "rioter*", "demonstrat*", "unrest", "curfew*",
			"looting", "tear gas", "clash with police", "general strike", "strikers", "blockade*",
		),
	},
	{
		Category: CategoryDisinformation,
		Severity: 2,
		Match: Keywords(
			"disinformation", "misinformation", "propaganda", "fake news", "hoax*",
			"deepfake*", "rumor*", "rumour*", "fabricated",
		),
	},
}

// Classifier применяет упорядоченный список правил
type Classifier struct {
	rules []Rule
}

// New создает классификатор. Без правил используется DefaultRules
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify - чистая функция: одинаковый текст всегда дает одинаковый результат
func (c *Classifier) Classify(text string) Result {
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		if r.Match(lower) {
			return Result{Category: r.Category, Severity: r.Severity, BaseConfidence: BaseConfidence}
		}
	}
	return Result{Category: CategoryGeneral, Severity: FallbackSeverity, BaseConfidence: FallbackConfidence}
}

// Classify использует правила по умолчанию
func Classify(text string) Result {
	return defaultClassifier.Classify(text)
}

var defaultClassifier = New()
