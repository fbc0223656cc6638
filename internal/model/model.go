package model

// IdentityKind classifies how a user reference is rendered downstream.
type IdentityKind int

const (
	// IdentityNone means no attribution is rendered (anonymous, or the
	// acting operator's own resolved handle).
	IdentityNone IdentityKind = iota
	// IdentitySource is an unresolved handle from the source tracker,
	// rendered literally.
	IdentitySource
	// IdentityTarget is a handle resolved through the identity map,
	// rendered as an @mention on the target system.
	IdentityTarget
)

// Origin identifies which source system a handle came from.
type Origin int

const (
	OriginBitbucket Origin = iota
	OriginGoogleCode
)

// Identity is a resolved user reference for an issue reporter or
// comment author.
type Identity struct {
	Kind   IdentityKind
	Handle string
	Origin Origin // meaningful only for IdentitySource
}

// Issue is the normalized, source-agnostic representation of a tracked
// item. Built once by an importer, read-only afterwards.
type Issue struct {
	ID        int
	Title     string
	CreatedAt string // YYYY-MM-DDTHH:MM:SS, UTC
	UpdatedAt string
	ClosedAt  string // empty when open or no closing event could be inferred
	Closed    bool
	Labels    []string // insertion order, no duplicates
	Body      string
	Reporter  Identity
	Comments  []Comment // chronological, stable by source id
}

// Comment is a timestamped reply owned by exactly one Issue.
type Comment struct {
	CreatedAt string
	Body      string
	Author    Identity
}
