package main

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/application"
	httpinterface "github.com/zakoken/zkkd/internal/interfaces/http"
	"github.com/zakoken/zkkd/pkg/jwtutil"
)

const (
	operatorTokenFile = "operator.jwt"
	relayerTokenFile  = "relayer.jwt"
)

// writeTokens persists non-expiring bearer tokens for the operator and the
// relayer into dir, so that the CLI and the remote messengers can
// authenticate.
func writeTokens(secret, dir string, roles application.Roles) error {
	signer, err := jwtutil.NewSigner(secret, httpinterface.Issuer)
	if err != nil {
		return err
	}

	tokens := map[string]string{
		operatorTokenFile: roles.Operator,
		relayerTokenFile:  roles.Relayer,
	}
	for file, subject := range tokens {
		if len(subject) <= 0 {
			continue
		}
		token, err := signer.Generate(subject, 0)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, file)
		if err := os.WriteFile(path, []byte(token), 0600); err != nil {
			return err
		}
		log.Debugf("token for %s written to %s", subject, path)
	}
	return nil
}
