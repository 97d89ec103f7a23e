package ports

import "github.com/dappstore-io/passport/core"

// Tokenizer converts sessions to signed bearer tokens and back.
type Tokenizer interface {
	// SessionToToken mints a signed, self-contained session token.
	SessionToToken(session *core.Session) (string, error)

	// TokenToSession parses and verifies a session token. Expired or
	// otherwise invalid tokens return an error; no stored state is read.
	TokenToSession(token string) (*core.Session, error)
}
