package entity

// User is a catalog consumer. Blacklist and favorites are references to
// sellers/products owned elsewhere; they are kept as id sets backed by the
// user_blacklisted_sellers and user_favorite_products association tables.
type User struct {
	ID                   string
	BlacklistedSellerIDs []string
	FavoriteProductIDs   []string
}

// HasBlacklist reports whether the user excluded any seller.
func (u *User) HasBlacklist() bool {
	return len(u.BlacklistedSellerIDs) > 0
}
