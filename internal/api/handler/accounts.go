package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/qualifying"
	"github.com/vfg2006/icp-dashboard-api/pkg/apiErrors"
)

// ListAccounts devolve o estado do feed. A primeira chamada ativa o feed.
func ListAccounts(feed qualifying.Feed) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := feed.EnsureActivated(r.Context()); err != nil {
			// o erro fica registrado no estado publicado
			logrus.WithError(err).Warn("Falha ao ativar o feed de contas")
		}

		writeJSON(w, http.StatusOK, feed.State())
	})
}

func AccountsSummary(feed qualifying.Feed) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := feed.EnsureActivated(r.Context()); err != nil {
			logrus.WithError(err).Warn("Falha ao ativar o feed de contas")
		}

		writeJSON(w, http.StatusOK, feed.Summary())
	})
}

// RefreshAccounts reativa o feed e devolve o novo estado
func RefreshAccounts(feed qualifying.Feed) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RefreshAccounts")

		if err := feed.Activate(r.Context()); err != nil {
			handleQualifyingError(w, err, "Erro ao atualizar contas")
			return
		}

		writeJSON(w, http.StatusOK, feed.State())
	})
}

func ListAccountEvents(service qualifying.QualifyingService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exaID := httprouter.ParamsFromContext(r.Context()).ByName("id")
		listEvents(w, r, service, exaID)
	})
}

// ListEvents aceita o exa_id pela query string. Sem exa_id a lista volta vazia.
func ListEvents(service qualifying.QualifyingService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		listEvents(w, r, service, r.URL.Query().Get("exa_id"))
	})
}

func listEvents(w http.ResponseWriter, r *http.Request, service qualifying.QualifyingService, exaID string) {
	events, err := service.ListAccountEvents(r.Context(), exaID)
	if err != nil {
		handleQualifyingError(w, err, "Erro ao listar eventos")
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func handleQualifyingError(w http.ResponseWriter, err error, fallback string) {
	logrus.WithError(err).Error(fallback)

	var qualifyingErr *qualifying.QualifyingError
	if errors.As(err, &qualifyingErr) {
		apiErrors.WriteError(w, qualifyingErr.Code, qualifyingErr.Error(), nil)
		return
	}

	apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
}
