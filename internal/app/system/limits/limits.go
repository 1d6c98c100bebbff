// internal/app/system/limits/limits.go
package limits

// Field length limits. These are part of the external contract and must
// not drift; every validator reads them from here.
//
// Lengths are counted in characters (runes), not bytes.
const (
	// MinUsernameLen and MaxUsernameLen bound account usernames.
	MinUsernameLen = 6
	MaxUsernameLen = 24

	// MinPasswordLen and MaxPasswordLen bound plaintext passwords at
	// registration and password change.
	MinPasswordLen = 6
	MaxPasswordLen = 24

	// MaxWorkspaceName bounds workspace display names.
	MaxWorkspaceName = 25

	// MaxProjectName and MaxProjectDescription bound project fields.
	MaxProjectName        = 25
	MaxProjectDescription = 120

	// MaxTicketTitle and MaxTicketDescription bound ticket fields.
	MaxTicketTitle       = 20
	MaxTicketDescription = 120

	// MaxCommentLen bounds ticket comment bodies.
	MaxCommentLen = 120

	// MaxBodySize caps JSON request bodies to prevent memory exhaustion
	// from oversized requests.
	MaxBodySize = 1 << 20 // 1 MB
)
