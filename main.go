package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/airaware/airaware-api/api/handlers"
	"github.com/airaware/airaware-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //initialize database, router and scheduler
		log.Fatal(err)
	}

	origins := []string{"*"}
	if a.Config.BaseURL != "" {
		origins = []string{a.Config.BaseURL}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})

	zap.S().Infow("airaware-api is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), c.Handler(a.Router)))
}
