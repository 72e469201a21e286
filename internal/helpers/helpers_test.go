package helpers

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Amazing Event":                    "my-amazing-event",
		"My Amazing Event!":                   "my-amazing-event",
		"UPPERCASE EVENT":                     "uppercase-event",
		"Event! With@ Special# Characters$":   "event-with-special-characters",
		"Event    With    Multiple    Spaces": "event-with-multiple-spaces",
		"---Event Name---":                    "event-name",
		"Tech Conference 2025":                "tech-conference-2025",
		"  Event With Spaces  ":               "event-with-spaces",
		"Go - Beyond -- the   basics":         "go-beyond-the-basics",
		"\tTabs\nand newlines":                "tabs-and-newlines",
		"!!!":                                 "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSlugifyProperties(t *testing.T) {
	titles := []string{
		"My Amazing Event!", "  --Hello--World--  ", "A  B   C", "Ünïcödé Summit 2026",
		"React & Next.js: Deep Dive", "--", "x", "Kubernetes @ Scale / Day-2 Ops",
	}
	shape := regexp.MustCompile(`^[a-z0-9-]*$`)
	for _, title := range titles {
		s := Slugify(title)
		assert.Equal(t, s, Slugify(s), "idempotent for %q", title)
		assert.Regexp(t, shape, s)
		assert.False(t, strings.HasPrefix(s, "-"), title)
		assert.False(t, strings.HasSuffix(s, "-"), title)
		assert.NotContains(t, s, "--", title)
		if s != "" {
			assert.True(t, IsValidSlug(s), title)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("my-amazing-event"))
	assert.False(t, IsValidSlug("My-Event"))
	assert.False(t, IsValidSlug("-event"))
	assert.False(t, IsValidSlug("event--two"))
	assert.False(t, IsValidSlug(""))
}

func TestNormalizeTime(t *testing.T) {
	cases := map[string]string{
		"14:30":      "14:30",
		"9:00":       "09:00",
		"00:00":      "00:00",
		"23:59":      "23:59",
		"9:00 AM":    "09:00",
		"10:30 AM":   "10:30",
		"12:00 AM":   "00:00",
		"1:00 PM":    "13:00",
		"5:30 PM":    "17:30",
		"12:00 PM":   "12:00",
		"11:59 PM":   "23:59",
		"9:00 am":    "09:00",
		"9:00 pm":    "21:00",
		"  2:30 PM ": "14:30",
		"7:15pm":     "19:15",
	}
	valid := regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	for in, want := range cases {
		got, err := NormalizeTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		assert.Regexp(t, valid, got)
	}
}

func TestNormalizeTimeRejects(t *testing.T) {
	for _, in := range []string{"invalid", "25:00", "24:00", "12:60", "12:00:00", "noon", "13:00 PM", "0:30 AM", "9.30", "9:5", ""} {
		_, err := NormalizeTime(in)
		require.Error(t, err, in)
		assert.True(t, errs.Is(err, errs.KindValidation), in)
		assert.Equal(t, "time", errs.FieldOf(err))
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2025-12-25":               "2025-12-25",
		"2025/12/25":               "2025-12-25",
		"December 25, 2025":        "2025-12-25",
		"2025-06-15T00:00:00.000Z": "2025-06-15",
		" 2025-12-31 ":             "2025-12-31",
	}
	for in, want := range cases {
		got, err := NormalizeDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNormalizeDateRejects(t *testing.T) {
	for _, in := range []string{"invalid-date", "", "tomorrow-ish"} {
		_, err := NormalizeDate(in)
		require.Error(t, err, in)
		assert.True(t, errs.Is(err, errs.KindValidation), in)
		assert.Contains(t, strings.ToLower(err.Error()), "date")
	}
}

func TestNormalizeDateAlwaysEmitsISO(t *testing.T) {
	iso := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	for _, in := range []string{"December 25, 2025", "2025/12/25", "Jan 2, 2026", "2025-06-15T10:00:00Z"} {
		got, err := NormalizeDate(in)
		require.NoError(t, err, in)
		assert.Regexp(t, iso, got, in)
	}
}

func TestBookingEmail(t *testing.T) {
	valid := []string{
		"test@example.com", "user.name@example.com", "user+tag@example.co.uk", "user_name@example.com",
		"test123@test-domain.com", "a@example.com", "user@mail.subdomain.example.com", "user-name@example.com",
	}
	for _, e := range valid {
		assert.True(t, IsValidBookingEmail(e), e)
	}
	invalid := []string{
		"invalid", "invalid@", "@example.com", "invalid@.com", "invalid..email@example.com", "invalid @example.com",
		"invalid@example", ".user@example.com", "user.@example.com", "user name@example.com",
	}
	for _, e := range invalid {
		assert.False(t, IsValidBookingEmail(e), e)
	}
}

func TestAccountEmail(t *testing.T) {
	assert.True(t, IsValidAccountEmail("a@b.com"))
	assert.True(t, IsValidAccountEmail("first.last+tag@example.io"))
	assert.False(t, IsValidAccountEmail("no-at-sign"))
	assert.False(t, IsValidAccountEmail("two@@example.com"))
	assert.False(t, IsValidAccountEmail("space in@example.com"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("\t\n  USER@Example.COM \n\t"))
}

func TestTrimAllAndRemoveDuplicates(t *testing.T) {
	assert.Equal(t, []string{"go", "cloud"}, TrimAll([]string{" go ", "  ", "cloud"}))
	assert.Equal(t, []string{"go", "cloud", "ai"}, RemoveDuplicates([]string{"go", "cloud", "go", "ai", "cloud"}))
}

func TestTokenRoundTrip(t *testing.T) {
	tm, err := NewTokenManager(context.Background(), "secret", time.Hour, "")
	require.NoError(t, err)
	defer tm.Close()

	token, expires, err := tm.Issue("65f0c0ffee0000000000abcd", "a@b.com", "Ada", "admin")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "65f0c0ffee0000000000abcd", claims.UserID)
	assert.True(t, claims.IsAdmin())
	assert.Equal(t, "admin", claims.Actor().Role)
}

func TestTokenRejectsForeignSecret(t *testing.T) {
	issuer, err := NewTokenManager(context.Background(), "one", time.Hour, "")
	require.NoError(t, err)
	verifier, err := NewTokenManager(context.Background(), "two", time.Hour, "")
	require.NoError(t, err)

	token, _, err := issuer.Issue("u1", "a@b.com", "Ada", "user")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	tm, err := NewTokenManager(context.Background(), "secret", -time.Minute, "")
	require.NoError(t, err)

	token, _, err := tm.Issue("u1", "a@b.com", "Ada", "user")
	require.NoError(t, err)

	_, err = tm.Validate(token)
	assert.Error(t, err)
}
