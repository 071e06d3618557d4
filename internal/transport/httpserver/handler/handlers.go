package handler

import (
	"softdesk-go/internal/auth"
	commentdomain "softdesk-go/internal/domain/comment"
	identitydomain "softdesk-go/internal/domain/identity"
	issuedomain "softdesk-go/internal/domain/issue"
	projectdomain "softdesk-go/internal/domain/project"
	"softdesk-go/pkg/logger"
)

type Handlers struct {
	Identity *identitydomain.Service
	Projects *projectdomain.Service
	Issues   *issuedomain.Service
	Comments *commentdomain.Service
	tokens   *auth.Issuer
	log      logger.Logger
}

func New(identity *identitydomain.Service, projects *projectdomain.Service, issues *issuedomain.Service, comments *commentdomain.Service, tokens *auth.Issuer, log logger.Logger) *Handlers {
	return &Handlers{
		Identity: identity,
		Projects: projects,
		Issues:   issues,
		Comments: comments,
		tokens:   tokens,
		log:      log,
	}
}
