package handler

import (
	"net/http"

	"github.com/vfg2006/icp-dashboard-api/internal/api/handler/router"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/forwarding"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/qualifying"
)

func Healthcheck(db Pinger) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(db),
		},
	}
}

func Metrics(metricsHandler http.Handler) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metricsHandler,
		},
	}
}

func Proxy(service forwarding.ForwardingService, observer ProxyObserver) []router.Route {
	return []router.Route{
		{
			Path:    "/api/send-to-clay",
			Method:  http.MethodPost,
			Handler: SendToClay(service, observer),
		},
		{
			Path:    "/api/activate-companies",
			Method:  http.MethodPost,
			Handler: ActivateCompanies(service, observer),
		},
		{
			Path:    "/api/forward-webhook",
			Method:  http.MethodPost,
			Handler: ForwardWebhook(service, observer),
		},
	}
}

func Accounts(feed qualifying.Feed, service qualifying.QualifyingService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/accounts",
			Method:  http.MethodGet,
			Handler: ListAccounts(feed),
		},
		{
			Path:    "/v1/summary/accounts",
			Method:  http.MethodGet,
			Handler: AccountsSummary(feed),
		},
		{
			Path:    "/v1/accounts/refresh",
			Method:  http.MethodPost,
			Handler: RefreshAccounts(feed),
		},
		{
			Path:    "/v1/accounts/:id/events",
			Method:  http.MethodGet,
			Handler: ListAccountEvents(service),
		},
		{
			Path:    "/v1/events",
			Method:  http.MethodGet,
			Handler: ListEvents(service),
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/cron/:type/run",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
