package domain

// Identity is the external collaborator supplying the current user. The
// engine never authenticates anyone; it consumes whatever identity the
// boundary hands it.
type Identity interface {
	// CurrentUserID returns the signed-in user's id, or false when nobody
	// is signed in.
	CurrentUserID() (int64, bool)
	CurrentUserDisplayName() string
	CurrentUserAvatarURL() string
}

// SnapshotAuthor captures the identity as an immutable Author snapshot.
func SnapshotAuthor(id Identity) (Author, bool) {
	uid, ok := id.CurrentUserID()
	if !ok {
		return Author{}, false
	}
	return Author{
		ID:          uid,
		DisplayName: id.CurrentUserDisplayName(),
		AvatarURL:   id.CurrentUserAvatarURL(),
	}, true
}
