package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ototansan/internal/models"
)

// Cars and customers seen at the workshop.
var carModels = []string{
	"Toyota Avanza 2020",
	"Honda Brio RS",
	"Mitsubishi Xpander",
	"Suzuki Ertiga",
	"Daihatsu Terios",
	"Toyota Fortuner",
}

var customers = []string{
	"Siti Aminah",
	"Agus Pratama",
	"Dewi Lestari",
	"Rudi Hartono",
	"Rina Wijaya",
}

// fallbackOil is used when the catalog has no oils.
const fallbackOil = "Oli Mesin Standar"

type simConfig struct {
	apiURL   string
	email    string
	password string
	interval time.Duration
	visits   int
}

func loadConfig() simConfig {
	cfg := simConfig{
		apiURL:   os.Getenv("API_BASE_URL"),
		email:    os.Getenv("SIM_EMAIL"),
		password: os.Getenv("SIM_PASSWORD"),
		interval: 2 * time.Second,
	}
	if cfg.apiURL == "" {
		cfg.apiURL = "http://localhost:8080"
	}
	if cfg.email == "" {
		cfg.email = "admin@ototansan.com"
	}
	if cfg.password == "" {
		cfg.password = "admin123"
	}
	if v := os.Getenv("SIM_TICK_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.interval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("SIM_VISITS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.visits = n
		}
	}
	return cfg
}

// apiClient talks to the service API with a bearer token.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: 10 * time.Second}}
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out interface{}, want int) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return fmt.Errorf("%s %s failed with status: %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *apiClient) login(ctx context.Context, email, password string) (models.User, error) {
	var resp models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", models.LoginRequest{Email: email, Password: password}, &resp, http.StatusOK)
	if err != nil {
		return models.User{}, err
	}
	c.token = resp.Token
	return resp.User, nil
}

func (c *apiClient) oilTypes(ctx context.Context) ([]string, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products?category=Oli", nil, &products, http.StatusOK); err != nil {
		return nil, err
	}
	oils := make([]string, 0, len(products))
	for _, p := range products {
		oils = append(oils, p.Name)
	}
	return oils, nil
}

func (c *apiClient) addRecord(ctx context.Context, in models.RecordInput) (models.ServiceRecord, error) {
	var record models.ServiceRecord
	err := c.do(ctx, http.MethodPost, "/api/records", in, &record, http.StatusCreated)
	return record, err
}

// vehicle is a car returning to the workshop for oil changes.
type vehicle struct {
	Owner      string
	CarModel   string
	Kilometers int
}

func newFleet(rng *rand.Rand) []*vehicle {
	fleet := make([]*vehicle, 0, len(customers))
	for _, name := range customers {
		fleet = append(fleet, &vehicle{
			Owner:      name,
			CarModel:   carModels[rng.Intn(len(carModels))],
			Kilometers: 5000 + rng.Intn(60000),
		})
	}
	return fleet
}

// nextVisit drives the car roughly one service interval and books it in.
func nextVisit(rng *rand.Rand, v *vehicle, oils []string, day time.Time) models.RecordInput {
	v.Kilometers += models.ServiceIntervalKm - 1000 + rng.Intn(2000)

	oil := fallbackOil
	if len(oils) > 0 {
		oil = oils[rng.Intn(len(oils))]
	}
	return models.RecordInput{
		CustomerName: v.Owner,
		CarModel:     v.CarModel,
		Date:         day.Format(models.DateLayout),
		Kilometers:   v.Kilometers,
		OilType:      oil,
		Notes:        "Kunjungan simulasi",
	}
}

// run logs in and submits visits until ctx is done or cfg.visits have been
// sent (zero means no limit). It returns the number of visits recorded.
func run(ctx context.Context, cfg simConfig, rng *rand.Rand) (int, error) {
	client := newAPIClient(cfg.apiURL)

	user, err := client.login(ctx, cfg.email, cfg.password)
	if err != nil {
		return 0, fmt.Errorf("login failed: %w", err)
	}
	log.WithFields(log.Fields{"user": user.Name, "role": user.Role}).Info("Logged in")

	oils, err := client.oilTypes(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to load oil catalog")
	}

	fleet := newFleet(rng)
	tick := time.NewTicker(cfg.interval)
	defer tick.Stop()

	sent := 0
	for cfg.visits == 0 || sent < cfg.visits {
		v := fleet[rng.Intn(len(fleet))]
		record, err := client.addRecord(ctx, nextVisit(rng, v, oils, time.Now()))
		if err != nil {
			log.WithError(err).Error("Failed to record visit")
		} else {
			sent++
			log.WithFields(log.Fields{
				"record_id":       record.ID,
				"car_model":       record.CarModel,
				"kilometers":      record.Kilometers,
				"next_service_km": record.NextServiceKm,
			}).Info("Recorded visit")
		}

		if cfg.visits != 0 && sent >= cfg.visits {
			break
		}
		select {
		case <-ctx.Done():
			return sent, nil
		case <-tick.C:
		}
	}
	return sent, nil
}

func main() {
	cfg := loadConfig()

	log.WithFields(log.Fields{
		"api_url":  cfg.apiURL,
		"email":    cfg.email,
		"interval": cfg.interval,
		"visits":   cfg.visits,
	}).Info("Starting workshop simulation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sent, err := run(ctx, cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		log.WithError(err).Fatal("Simulation failed")
	}
	log.WithField("visits", sent).Info("Simulation finished")
}
