// internal/validate/validate.go
// Advisory input validation for user-entered text and image files.
// Invalid input is a normal return value here, never an error: callers
// decide whether to surface the message or proceed.

package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Result is the outcome of a single validation check
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// StrengthResult is the outcome of a password strength check
type StrengthResult struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message"`
	Strength int    `json:"strength"` // 0-5
}

const (
	MaxPasswordLength = 128
	MinPasswordLength = 6
	MaxDisplayName    = 50
	MinDisplayName    = 2
	MaxCaptionLength  = 2200
	MaxCommentLength  = 1000
	MaxBioLength      = 150
	MaxImageSizeBytes = 5 << 20 // 5MB
)

var (
	emailRe     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	lowerRe     = regexp.MustCompile(`[a-z]`)
	upperRe     = regexp.MustCompile(`[A-Z]`)
	digitRe     = regexp.MustCompile(`\d`)
	symbolRe    = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	angleRe     = regexp.MustCompile(`[<>]`)
	filenameRe  = regexp.MustCompile(`[^a-zA-Z0-9.]`)
	allowedMIME = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
)

// IsValidEmail reports whether email matches a simple local@domain.tld shape
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword checks basic password length constraints
func IsValidPassword(password string) Result {
	if len(password) < MinPasswordLength {
		return Result{false, "Password must be at least 6 characters long"}
	}
	if len(password) > MaxPasswordLength {
		return Result{false, "Password must be less than 128 characters"}
	}
	return Result{Valid: true}
}

// IsStrongPassword scores a password on five criteria and passes at 4/5
func IsStrongPassword(password string) StrengthResult {
	strength := 0
	var missing []string

	if len(password) >= 8 {
		strength++
	} else {
		missing = append(missing, "At least 8 characters")
	}

	if lowerRe.MatchString(password) {
		strength++
	} else {
		missing = append(missing, "One lowercase letter")
	}

	if upperRe.MatchString(password) {
		strength++
	} else {
		missing = append(missing, "One uppercase letter")
	}

	if digitRe.MatchString(password) {
		strength++
	} else {
		missing = append(missing, "One number")
	}

	if symbolRe.MatchString(password) {
		strength++
	} else {
		missing = append(missing, "One special character")
	}

	if len(missing) > 0 {
		return StrengthResult{
			Valid:    strength >= 4,
			Message:  "Missing: " + strings.Join(missing, ", "),
			Strength: strength,
		}
	}

	return StrengthResult{Valid: true, Message: "Strong password", Strength: strength}
}

// IsValidDisplayName checks trimmed length and forbids angle brackets
func IsValidDisplayName(name string) Result {
	trimmed := strings.TrimSpace(name)

	if len(trimmed) < MinDisplayName {
		return Result{false, "Display name must be at least 2 characters"}
	}
	if len(trimmed) > MaxDisplayName {
		return Result{false, "Display name must be less than 50 characters"}
	}
	if angleRe.MatchString(trimmed) {
		return Result{false, "Display name cannot contain < or >"}
	}
	return Result{Valid: true}
}

// IsValidCaption checks caption length
func IsValidCaption(caption string) Result {
	if len(caption) > MaxCaptionLength {
		return Result{false, "Caption must be less than 2200 characters"}
	}
	return Result{Valid: true}
}

// IsValidComment checks trimmed comment length
func IsValidComment(comment string) Result {
	trimmed := strings.TrimSpace(comment)

	if len(trimmed) == 0 {
		return Result{false, "Comment cannot be empty"}
	}
	if len(trimmed) > MaxCommentLength {
		return Result{false, "Comment must be less than 1000 characters"}
	}
	return Result{Valid: true}
}

// IsValidBio checks bio length
func IsValidBio(bio string) Result {
	if len(bio) > MaxBioLength {
		return Result{false, "Bio must be less than 150 characters"}
	}
	return Result{Valid: true}
}

// IsValidImageFile checks an image's MIME type and size before upload
func IsValidImageFile(contentType string, size int64) Result {
	if !allowedMIME[contentType] {
		return Result{false, "Only JPEG, PNG, GIF, and WebP images are allowed"}
	}
	if size > MaxImageSizeBytes {
		return Result{false, "Image size must be less than 5MB"}
	}
	return Result{Valid: true}
}

// IsValidURL reports whether s parses as an absolute URL
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// SanitizeText escapes HTML-significant characters for defensive rendering.
// Ampersands are replaced first to avoid double-encoding.
func SanitizeText(text string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
	)
	text = r.Replace(text)
	r2 := strings.NewReplacer(
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#039;",
		"`", "&#96;",
	)
	return r2.Replace(text)
}

// ValidateAndSanitize trims, length-checks, and escapes a text input
func ValidateAndSanitize(text string, maxLength int) (Result, string) {
	trimmed := strings.TrimSpace(text)

	if len(trimmed) == 0 {
		return Result{false, "Input cannot be empty"}, ""
	}
	if len(trimmed) > maxLength {
		return Result{false, fmt.Sprintf("Input must be less than %d characters", maxLength)}, ""
	}

	return Result{Valid: true}, SanitizeText(trimmed)
}

// SanitizeFilename replaces everything outside [a-zA-Z0-9.] with underscores
// so filenames are safe to embed in blob store paths
func SanitizeFilename(name string) string {
	return filenameRe.ReplaceAllString(name, "_")
}
