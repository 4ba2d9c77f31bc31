// Package feed holds the visibility and pagination policy for the activity
// feed. Everything in this package is pure: it decides which doros a viewer
// may see and where a doro lands when the feed is paginated, without touching
// the database. The repositories feed it snapshots of relationship data.
package feed

// Mode selects which slice of the feed a viewer requested.
type Mode string

const (
	// ModeGlobal shows all public authors' doros regardless of follow status.
	ModeGlobal Mode = "global"
	// ModeFollowing shows only doros from authors the viewer explicitly
	// follows. It is a strict subset of the viewer's follow set, never a
	// superset of global: public authors the viewer does not follow are
	// excluded.
	ModeFollowing Mode = "following"
)

// Valid reports whether the mode is one of the supported feed modes.
func (m Mode) Valid() bool {
	return m == ModeGlobal || m == ModeFollowing
}

// Relationships is a loaded snapshot of the viewer's relationship edges.
// A nil *Relationships means the data could not be loaded and every
// visibility decision fails closed. Use NoRelationships for viewers that
// genuinely have none (unauthenticated requests).
type Relationships struct {
	// Follows holds the ids of authors the viewer follows (outbound edges).
	Follows map[uint]struct{}
	// Blocked holds the ids of users with a block edge touching the viewer,
	// in either direction. Block direction is irrelevant to visibility.
	Blocked map[uint]struct{}
}

// NoRelationships returns an empty, loaded relationship snapshot. This is
// distinct from a nil snapshot: empty means "viewer has no edges", nil means
// "we don't know", and unknown data must hide content rather than leak it.
func NoRelationships() *Relationships {
	return &Relationships{
		Follows: map[uint]struct{}{},
		Blocked: map[uint]struct{}{},
	}
}

// Follows reports whether the viewer follows the given author.
func (r *Relationships) FollowsAuthor(authorID uint) bool {
	if r == nil || r.Follows == nil {
		return false
	}
	_, ok := r.Follows[authorID]
	return ok
}

// BlockedWith reports whether a block edge exists between the viewer and the
// given user, in either direction.
func (r *Relationships) BlockedWith(userID uint) bool {
	if r == nil || r.Blocked == nil {
		return false
	}
	_, ok := r.Blocked[userID]
	return ok
}

// Visible decides whether a doro by authorID is visible to viewerID in the
// requested mode. viewerID 0 means an unauthenticated viewer.
//
// Precedence:
//  1. A block edge in either direction excludes the doro, overriding
//     everything else.
//  2. A viewer always sees their own doros.
//  3. Global mode: visible iff the author is not followers-only, or the
//     viewer follows the author.
//  4. Following mode: visible iff the viewer follows the author, regardless
//     of the author's followers-only flag.
//
// A nil rel snapshot fails closed: without relationship data we cannot rule
// out a block, so no doro is shown.
func Visible(viewerID, authorID uint, authorFollowersOnly bool, mode Mode, rel *Relationships) bool {
	if rel == nil {
		return false
	}
	if rel.BlockedWith(authorID) {
		return false
	}
	if viewerID != 0 && viewerID == authorID {
		return true
	}
	switch mode {
	case ModeGlobal:
		return !authorFollowersOnly || rel.FollowsAuthor(authorID)
	case ModeFollowing:
		if viewerID == 0 {
			return false
		}
		return rel.FollowsAuthor(authorID)
	default:
		return false
	}
}
