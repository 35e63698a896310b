package domain

import (
	"fmt"
	"regexp"
	"time"
	"unicode"
	"unicode/utf8"
)

// Default rule values.
const (
	DefaultNameFormat            = `^[a-zA-Z\- ]{2,40}$`
	DefaultMaxContentLength      = 1000
	DefaultMaxTodolistCapacity   = 10
	DefaultNotificationThreshold = 8
	DefaultMinimumAgeYears       = 13
	DefaultItemCooldown          = 30 * time.Minute

	// NotificationMessage is sent to a user whose list reaches the threshold.
	NotificationMessage = "Todo list almost full"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 40
)

var (
	emailFormat    = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)
	passwordFormat = regexp.MustCompile(`^[a-zA-Z\d]+$`)
)

// Rules holds the settings the validation logic reads. Values are immutable
// once built; pass the same Rules to every entity of a request.
type Rules struct {
	NameFormat            *regexp.Regexp
	MaxContentLength      int
	MaxTodolistCapacity   int
	NotificationThreshold int
	MinimumAgeYears       int
	ItemCooldown          time.Duration

	// Now is the clock used for age checks and item creation dates.
	Now func() time.Time
}

// RuleSettings is the uncompiled form of Rules, as read from configuration.
type RuleSettings struct {
	NameFormat            string
	MaxContentLength      int
	MaxTodolistCapacity   int
	NotificationThreshold int
	MinimumAgeYears       int
	ItemCooldownMinutes   int
}

// DefaultRules returns the rules with their default values and a UTC wall clock.
func DefaultRules() Rules {
	return Rules{
		NameFormat:            regexp.MustCompile(DefaultNameFormat),
		MaxContentLength:      DefaultMaxContentLength,
		MaxTodolistCapacity:   DefaultMaxTodolistCapacity,
		NotificationThreshold: DefaultNotificationThreshold,
		MinimumAgeYears:       DefaultMinimumAgeYears,
		ItemCooldown:          DefaultItemCooldown,
		Now:                   utcNow,
	}
}

// NewRules compiles settings into Rules.
// Returns an error if the name format does not compile or a limit is out of range.
func NewRules(s RuleSettings) (Rules, error) {
	nameFormat, err := regexp.Compile(s.NameFormat)
	if err != nil {
		return Rules{}, fmt.Errorf("invalid name format %q: %w", s.NameFormat, err)
	}

	switch {
	case s.MaxContentLength <= 0:
		return Rules{}, fmt.Errorf("max content length must be positive, got %d", s.MaxContentLength)
	case s.MaxTodolistCapacity <= 0:
		return Rules{}, fmt.Errorf("max todolist capacity must be positive, got %d", s.MaxTodolistCapacity)
	case s.NotificationThreshold <= 0:
		return Rules{}, fmt.Errorf("notification threshold must be positive, got %d", s.NotificationThreshold)
	case s.MinimumAgeYears < 0:
		return Rules{}, fmt.Errorf("minimum age cannot be negative, got %d", s.MinimumAgeYears)
	case s.ItemCooldownMinutes < 0:
		return Rules{}, fmt.Errorf("item cooldown cannot be negative, got %d", s.ItemCooldownMinutes)
	}

	return Rules{
		NameFormat:            nameFormat,
		MaxContentLength:      s.MaxContentLength,
		MaxTodolistCapacity:   s.MaxTodolistCapacity,
		NotificationThreshold: s.NotificationThreshold,
		MinimumAgeYears:       s.MinimumAgeYears,
		ItemCooldown:          time.Duration(s.ItemCooldownMinutes) * time.Minute,
		Now:                   utcNow,
	}, nil
}

// WithClock returns a copy of the rules using the given clock.
func (r Rules) WithClock(now func() time.Time) Rules {
	r.Now = now
	return r
}

func (r Rules) now() time.Time {
	if r.Now == nil {
		return utcNow()
	}
	return r.Now()
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// ValidName reports whether s matches the configured name format.
func (r Rules) ValidName(s string) bool {
	return r.NameFormat.MatchString(s)
}

// ValidContent reports whether content fits within the configured length,
// counted in characters.
func (r Rules) ValidContent(content string) bool {
	return utf8.RuneCountInString(content) <= r.MaxContentLength
}

// ValidEmail reports whether email has a local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailFormat.MatchString(email)
}

// ValidPassword reports whether password is 8-40 letters or digits with at
// least one lowercase letter, one uppercase letter and one digit.
func ValidPassword(password string) bool {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return false
	}
	if !passwordFormat.MatchString(password) {
		return false
	}

	var lower, upper, digit bool
	for _, c := range password {
		switch {
		case unicode.IsLower(c):
			lower = true
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsDigit(c):
			digit = true
		}
	}
	return lower && upper && digit
}

// OldEnough reports whether someone born on birthDate meets the minimum age.
// Only calendar years are compared, not the exact day.
func (r Rules) OldEnough(birthDate time.Time) bool {
	return birthDate.Year()+r.MinimumAgeYears <= r.now().Year()
}
