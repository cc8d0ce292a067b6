package qualifying

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/infrastructure/repository"
	"github.com/vfg2006/icp-dashboard-api/internal/domain"
	"github.com/vfg2006/icp-dashboard-api/pkg/apiErrors"
)

type QualifyingService interface {
	ListQualifiedAccounts(ctx context.Context) ([]*domain.QualifiedAccount, error)
	ListAccountEvents(ctx context.Context, exaID string) ([]*domain.ExploriumEvent, error)
}

type Service struct {
	exploriumRepository repository.ExploriumRepository
	signals             SignalProvider
}

func NewService(
	exploriumRepository repository.ExploriumRepository,
	signals SignalProvider,
) QualifyingService {
	return &Service{
		exploriumRepository: exploriumRepository,
		signals:             signals,
	}
}

func (s *Service) ListQualifiedAccounts(ctx context.Context) ([]*domain.QualifiedAccount, error) {
	companies, err := s.exploriumRepository.ListCompanies(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar empresas na tabela explorium")
		return nil, NewQualifyingError(ErrFetchAccounts, apiErrors.ErrDatabaseOperation, "Falha ao consultar contas na base de dados")
	}

	accounts := make([]*domain.QualifiedAccount, 0, len(companies))
	for _, company := range companies {
		if company == nil {
			continue
		}
		accounts = append(accounts, MapAccount(company, s.signals.Signals(company)))
	}

	logrus.WithField("accounts", len(accounts)).Debug("Contas qualificadas mapeadas")

	return accounts, nil
}

func (s *Service) ListAccountEvents(ctx context.Context, exaID string) ([]*domain.ExploriumEvent, error) {
	exaID = strings.TrimSpace(exaID)
	if exaID == "" {
		return []*domain.ExploriumEvent{}, nil
	}

	rows, err := s.exploriumRepository.ListEventsByExaID(ctx, exaID)
	if err != nil {
		logrus.WithError(err).WithField("exa_id", exaID).Error("Erro ao buscar eventos da conta")
		return nil, NewQualifyingErrorWithID(ErrFetchEvents, apiErrors.ErrDatabaseOperation, exaID, "Falha ao consultar eventos na base de dados")
	}

	events := make([]*domain.ExploriumEvent, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}

		event := &domain.ExploriumEvent{
			EventID:   row.EventID,
			EventName: row.EventName,
			EventTime: row.EventTime,
			ExaID:     row.ExaID,
		}

		data, err := DecodeEventData(row.Data)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"exa_id":   exaID,
				"event_id": row.EventID,
			}).WithError(err).Warn("Payload de evento inválido")
			event.DataError = err.Error()
		} else {
			event.Data = data
		}

		events = append(events, event)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventTime.After(events[j].EventTime)
	})

	return events, nil
}

// DecodeEventData aceita NULL, um documento JSON, ou uma string JSON contendo
// outro documento codificado. O resultado é sempre JSON compacto ou nil.
func DecodeEventData(raw []byte) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if !json.Valid(raw) {
		return nil, NewQualifyingError(ErrDecodeEventData, apiErrors.ErrInvalidFormat, "payload não é JSON válido")
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, NewQualifyingError(ErrDecodeEventData, apiErrors.ErrInvalidFormat, err.Error())
		}
		return DecodeEventData([]byte(encoded))
	}

	var compacted bytes.Buffer
	if err := json.Compact(&compacted, raw); err != nil {
		return nil, NewQualifyingError(ErrDecodeEventData, apiErrors.ErrInvalidFormat, err.Error())
	}

	return json.RawMessage(compacted.Bytes()), nil
}
