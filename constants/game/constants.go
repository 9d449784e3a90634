package game_constants

// Entry ratings are a 1..5 star scale.
const MinEntryRating = 1
const MaxEntryRating = 5

// Archive paging
const GamesPerPage = 10
const RecentEntriesLimit = 10 // NOTE: this is what frontend shows

const MaxSearchResults = 10

// Account name rules, enforced again by the accounts service
const NameMinLength = 3
const NameMaxLength = 16

const VerificationAddressLength = 32
