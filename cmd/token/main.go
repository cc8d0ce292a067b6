// Command token emite um bearer token para as rotas /v1 usando AUTH_SECRET
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/icp-dashboard-api/internal/config"
	"github.com/vfg2006/icp-dashboard-api/internal/usecases/authenticating"
)

func main() {
	subject := flag.String("sub", "dashboard", "subject do token")
	name := flag.String("name", "", "nome exibido")
	ttl := flag.Duration("ttl", 24*time.Hour, "validade do token")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	token, err := authenticating.NewService(cfg).GenerateToken(*subject, *name, *ttl)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao gerar token")
	}

	fmt.Println(token)
}
