package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fulldump/registryviews/bootstrap"
	"github.com/fulldump/registryviews/configuration"
)

type JSON = map[string]any

var client = &http.Client{
	Transport: &http.Transport{
		MaxConnsPerHost:     1024,
		MaxIdleConnsPerHost: 1024,
		MaxIdleConns:        1024,
	},
}

func Parallel(workers int, f func()) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	wg.Wait()
}

func Post(url string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return client.Post(url, "application/json", bytes.NewReader(payload))
}

func CreateView(base string, required bool, filter JSON) string {

	name := "view-" + strconv.FormatInt(time.Now().UnixNano(), 10)

	resp, err := Post(base+"/v1/views", JSON{
		"name":     name,
		"kind":     "sorted-set",
		"filter":   filter,
		"required": required,
	})
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	io.Copy(os.Stdout, resp.Body)

	return name
}

// RegisterService returns the id of the new service.
func RegisterService(base string, properties JSON) (string, error) {
	resp, err := Post(base+"/v1/services", JSON{"properties": properties})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body := JSON{}
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return "", err
	}
	id, _ := body["id"].(string)
	return id, nil
}

func CreateServer(c *Config) (start func() error, stop func()) {

	conf := configuration.Default()
	conf.HttpAddr = "127.0.0.1:8181"
	conf.EnableCompression = false
	c.Base = "http://" + conf.HttpAddr

	start, stop, err := bootstrap.Bootstrap(&conf, zap.NewNop())
	if err != nil {
		panic("Could not create server: " + err.Error())
	}
	cleanups = append(cleanups, stop)

	return start, stop
}
