package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"
	"go.uber.org/zap"

	"github.com/fulldump/registryviews/bootstrap"
	"github.com/fulldump/registryviews/configuration"
	"github.com/fulldump/registryviews/logging"
)

var banner = `
                 _     _
 _ __ ___  __ _ (_)___| |_ _ __ _   ___   _(_) _____      _____
| '__/ _ \/ _' || / __| __| '__| | | \ \ / / |/ _ \ \ /\ / / __|
| | |  __/ (_| || \__ \ |_| |  | |_| |\ V /| |  __/\ V  V /\__ \
|_|  \___|\__, ||_|___/\__|_|   \__, | \_/ |_|\___| \_/\_/ |___/
          |___/                 |___/     version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	logger, err := logging.New(c.LogLevel)
	if err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(-1)
	}
	defer logger.Sync()

	start, _, err := bootstrap.Bootstrap(&c, logger)
	if err != nil {
		logger.Error("bootstrap", zap.Error(err))
		os.Exit(-1)
	}

	err = start()
	if err != nil {
		logger.Error("stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
