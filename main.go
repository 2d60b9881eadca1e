package main

import (
	"flag"

	"github.com/lachlan2k/imob-admin/internal/config"
	"github.com/lachlan2k/imob-admin/internal/webserver"
)

func main() {
	confPath := flag.String("config", "config.toml", "Path to config file")
	apiURL := flag.String("api", "", "Backend API base URL, overrides [api] base_url")
	flag.Parse()

	server := webserver.New()
	logger := server.Logger()

	conf, err := config.LoadFromTomlFileAndValidate(*confPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if *apiURL != "" {
		conf.API.BaseURL = *apiURL
	}

	logger.Infof("Admin front end on :%d, backend API at %s, guarding %v", conf.ListenPort, conf.API.BaseURL, conf.Guard.ProtectedPrefixes)

	server.Run(conf)
}
