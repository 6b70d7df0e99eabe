package service

import (
	"bufio"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// readLines decodes a stream of one JSON document per line.
func readLines(body string) []JSON {
	result := []JSON{}
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		item := JSON{}
		json.Unmarshal([]byte(line), &item)
		result = append(result, item)
	}
	return result
}

func Acceptance(a *biff.A, apiRequest func(method, path string) *apitest.Request) {

	registerService := func(properties JSON) string {
		resp := apiRequest("POST", "/services").
			WithBodyJson(JSON{"properties": properties}).Do()
		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		return resp.BodyJson().(JSON)["id"].(string)
	}

	a.Alternative("Register service", func(a *biff.A) {
		resp := apiRequest("POST", "/services").
			WithBodyJson(JSON{
				"properties": JSON{
					"interface": "storage",
					"zone":      "eu",
					"ranking":   5,
				},
			}).Do()
		Save(resp, "Register service", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		body := resp.BodyJson().(JSON)
		id := body["id"].(string)
		biff.AssertEqual(len(id), 36)
		biff.AssertEqual(body["ranking"], float64(5))
		biff.AssertEqualJson(body["properties"], JSON{
			"interface": "storage",
			"zone":      "eu",
			"ranking":   5,
		})

		a.Alternative("Retrieve service", func(a *biff.A) {
			resp := apiRequest("GET", "/services/"+id).Do()
			Save(resp, "Retrieve service", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJson().(JSON)["id"], id)
		})

		a.Alternative("List services", func(a *biff.A) {
			registerService(JSON{"interface": "queue", "ranking": 9})

			resp := apiRequest("GET", "/services").Do()
			Save(resp, "List services", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			list := resp.BodyJson().([]interface{})
			biff.AssertEqual(len(list), 2)
			// highest ranking first
			biff.AssertEqual(list[0].(JSON)["ranking"], float64(9))
		})

		a.Alternative("Find services", func(a *biff.A) {
			registerService(JSON{"interface": "queue"})

			resp := apiRequest("POST", "/services:find").
				WithBodyJson(JSON{
					"filter": JSON{"interface": "storage"},
				}).Do()
			Save(resp, "Find services", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			list := resp.BodyJson().([]interface{})
			biff.AssertEqual(len(list), 1)
			biff.AssertEqual(list[0].(JSON)["id"], id)
		})

		a.Alternative("Find with a broken filter", func(a *biff.A) {
			resp := apiRequest("POST", "/services:find").
				WithBodyJson(JSON{
					"filter": JSON{"zone": JSON{"$nope": 1}},
				}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Modify service", func(a *biff.A) {
			resp := apiRequest("POST", "/services/"+id+":modify").
				WithBodyJson(JSON{
					"properties": JSON{"interface": "storage", "ranking": 1},
				}).Do()
			Save(resp, "Modify service", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqual(resp.BodyJson().(JSON)["ranking"], float64(1))
			biff.AssertEqual(resp.BodyJson().(JSON)["revision"], float64(2))
		})

		a.Alternative("Unregister service", func(a *biff.A) {
			resp := apiRequest("POST", "/services/"+id+":unregister").Do()
			Save(resp, "Unregister service", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			a.Alternative("Get unregistered service", func(a *biff.A) {
				resp := apiRequest("GET", "/services/"+id).Do()
				Save(resp, "Get service - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})

			a.Alternative("Unregister twice", func(a *biff.A) {
				resp := apiRequest("POST", "/services/"+id+":unregister").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})
	})

	a.Alternative("Register service with a bad ranking", func(a *biff.A) {
		resp := apiRequest("POST", "/services").
			WithBodyJson(JSON{
				"properties": JSON{"ranking": "high"},
			}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Create view", func(a *biff.A) {
		resp := apiRequest("POST", "/views").
			WithBodyJson(JSON{
				"name":     "storages",
				"kind":     "sorted-set",
				"filter":   JSON{"interface": "storage"},
				"required": true,
			}).Do()
		Save(resp, "Create view", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusCreated)
		expectedView := JSON{
			"name":        "storages",
			"kind":        "sorted-set",
			"filter":      JSON{"interface": "storage"},
			"required":    true,
			"satisfied":   false,
			"total":       0,
			"transitions": 0,
		}
		biff.AssertEqualJson(resp.BodyJson(), expectedView)

		a.Alternative("Retrieve view", func(a *biff.A) {
			resp := apiRequest("GET", "/views/storages").Do()
			Save(resp, "Retrieve view", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), expectedView)
		})

		a.Alternative("List views", func(a *biff.A) {
			resp := apiRequest("GET", "/views").Do()
			Save(resp, "List views", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{expectedView})
		})

		a.Alternative("Create view twice", func(a *biff.A) {
			resp := apiRequest("POST", "/views").
				WithBodyJson(JSON{"name": "storages"}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusConflict)
		})

		a.Alternative("Items of an unsatisfied required view", func(a *biff.A) {
			resp := apiRequest("POST", "/views/storages:items").Do()
			Save(resp, "Items - unavailable", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusServiceUnavailable)
		})

		a.Alternative("Services arrive", func(a *biff.A) {
			low := registerService(JSON{"interface": "storage", "name": "low", "ranking": 1})
			high := registerService(JSON{"interface": "storage", "name": "high", "ranking": 8})
			registerService(JSON{"interface": "queue", "name": "other"})

			resp := apiRequest("GET", "/views/storages").Do()
			body := resp.BodyJson().(JSON)
			biff.AssertEqual(body["satisfied"], true)
			biff.AssertEqual(body["total"], float64(2))
			biff.AssertEqual(body["transitions"], float64(1))

			a.Alternative("Items", func(a *biff.A) {
				resp := apiRequest("POST", "/views/storages:items").Do()
				Save(resp, "Items", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusOK)
				lines := readLines(resp.BodyString())
				biff.AssertEqual(len(lines), 2)
				biff.AssertEqual(lines[0]["id"], high)
				biff.AssertEqual(lines[1]["id"], low)
			})

			a.Alternative("Items with filter, skip and limit", func(a *biff.A) {
				registerService(JSON{"interface": "storage", "name": "mid", "ranking": 4})

				resp := apiRequest("POST", "/views/storages:items").
					WithBodyJson(JSON{
						"filter": JSON{"ranking": JSON{"$gt": 0}},
						"skip":   1,
						"limit":  1,
					}).Do()
				Save(resp, "Items - filter skip limit", ``)

				lines := readLines(resp.BodyString())
				biff.AssertEqual(len(lines), 1)
				biff.AssertEqual(lines[0]["properties"].(JSON)["name"], "mid")
			})

			a.Alternative("Last service leaves", func(a *biff.A) {
				apiRequest("POST", "/services/"+low+":unregister").Do()
				apiRequest("POST", "/services/"+high+":unregister").Do()

				resp := apiRequest("GET", "/views/storages").Do()
				body := resp.BodyJson().(JSON)
				biff.AssertEqual(body["satisfied"], false)
				biff.AssertEqual(body["transitions"], float64(2))

				resp = apiRequest("POST", "/views/storages:items").Do()
				biff.AssertEqual(resp.StatusCode, http.StatusServiceUnavailable)
			})

			a.Alternative("Modify within the view", func(a *biff.A) {
				apiRequest("POST", "/services/"+low+":modify").
					WithBodyJson(JSON{
						"properties": JSON{"interface": "storage", "name": "lowest", "ranking": 1},
					}).Do()

				resp := apiRequest("POST", "/views/storages:items").Do()
				lines := readLines(resp.BodyString())
				biff.AssertEqual(len(lines), 2)
				biff.AssertEqual(lines[1]["id"], low)
				biff.AssertEqual(lines[1]["properties"].(JSON)["name"], "lowest")
			})

			a.Alternative("Modify out of the view", func(a *biff.A) {
				apiRequest("POST", "/services/"+high+":modify").
					WithBodyJson(JSON{
						"properties": JSON{"interface": "queue"},
					}).Do()

				resp := apiRequest("GET", "/views/storages").Do()
				biff.AssertEqual(resp.BodyJson().(JSON)["total"], float64(1))
			})
		})

		a.Alternative("Drop view", func(a *biff.A) {
			resp := apiRequest("POST", "/views/storages:drop").Do()
			Save(resp, "Drop view", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)

			a.Alternative("Get dropped view", func(a *biff.A) {
				resp := apiRequest("GET", "/views/storages").Do()
				Save(resp, "Get view - not found", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
			})
		})
	})

	a.Alternative("Create view with unknown kind", func(a *biff.A) {
		resp := apiRequest("POST", "/views").
			WithBodyJson(JSON{"name": "x", "kind": "heap"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Create view without name", func(a *biff.A) {
		resp := apiRequest("POST", "/views").
			WithBodyJson(JSON{"kind": "list"}).Do()

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})

	a.Alternative("Optional list view", func(a *biff.A) {
		apiRequest("POST", "/views").
			WithBodyJson(JSON{"name": "everything"}).Do()

		resp := apiRequest("POST", "/views/everything:items").Do()
		biff.AssertEqual(resp.StatusCode, http.StatusOK)
		biff.AssertEqual(resp.BodyString(), "")

		first := registerService(JSON{"name": "first"})
		registerService(JSON{"name": "second"})

		resp = apiRequest("POST", "/views/everything:items").Do()
		lines := readLines(resp.BodyString())
		biff.AssertEqual(len(lines), 2)
		biff.AssertEqual(lines[0]["id"], first)
	})
}
