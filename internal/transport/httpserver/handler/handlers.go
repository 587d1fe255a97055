package handler

import (
	"net/http"

	babydomain "babycare-go/internal/domain/baby"
	familydomain "babycare-go/internal/domain/family"
	plandomain "babycare-go/internal/domain/plan"
	postdomain "babycare-go/internal/domain/post"
	recorddomain "babycare-go/internal/domain/record"
	taskdomain "babycare-go/internal/domain/task"
	userdomain "babycare-go/internal/domain/user"
	"babycare-go/pkg/logger"
	"babycare-go/pkg/token"
)

type Handlers struct {
	Users    *userdomain.Service
	Families *familydomain.Service
	Babies   *babydomain.Service
	Tasks    *taskdomain.Service
	Posts    *postdomain.Service
	Records  *recorddomain.Service
	Plans    *plandomain.Service

	tokens *token.Manager
	log    logger.Logger
}

func New(
	users *userdomain.Service,
	families *familydomain.Service,
	babies *babydomain.Service,
	tasks *taskdomain.Service,
	posts *postdomain.Service,
	records *recorddomain.Service,
	plans *plandomain.Service,
	tokens *token.Manager,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Users:    users,
		Families: families,
		Babies:   babies,
		Tasks:    tasks,
		Posts:    posts,
		Records:  records,
		Plans:    plans,
		tokens:   tokens,
		log:      log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
