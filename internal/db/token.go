package db

// TokenStore keeps the bearer token in the settings table. Every call hits
// the database, so a login or logout from another process is seen on the
// next read.
type TokenStore struct {
	db *DB
}

// Tokens returns the token slot backed by db
func (db *DB) Tokens() *TokenStore {
	return &TokenStore{db: db}
}

func (s *TokenStore) Get() (string, error) {
	return s.db.GetSetting(KeyToken)
}

func (s *TokenStore) Set(token string) error {
	if token == "" {
		return s.Remove()
	}
	return s.db.SetSetting(KeyToken, token)
}

func (s *TokenStore) Remove() error {
	return s.db.DeleteSetting(KeyToken)
}
