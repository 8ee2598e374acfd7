package domain

// RelationKind identifies one of the three (actor, target) relation tables.
type RelationKind string

const (
	// RelationFavorite links a user to a restaurant they favorited.
	RelationFavorite RelationKind = "favorite"
	// RelationLike links a user to a restaurant they liked. Independent of
	// favorites: a restaurant may be liked without being favorited.
	RelationLike RelationKind = "like"
	// RelationFollowship links a follower to the user they follow.
	RelationFollowship RelationKind = "followship"
)

func (k RelationKind) String() string { return string(k) }
