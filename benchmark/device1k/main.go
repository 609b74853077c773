package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"liyu1981.xyz/poultry-house-service/pkg/common"
)

var maxDevices int = 1000
var httpHostPort string = "127.0.0.1:1080"
var brokerURL string = "tcp://127.0.0.1:1883"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

var published atomic.Int64
var failed atomic.Int64

type telemetry struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Dust        float64 `json:"dust"`
	ChickCount  *int    `json:"chickCount,omitempty"`
}

type status struct {
	IsActive bool `json:"isActive"`
}

// The server must be connected to the same broker as userID, e.g. with
// MQTT_AUTOCONNECT_USER_ID, for the messages to be ingested.
func main() {
	userID := common.GetEnvOrDefault("BENCH_USER_ID", "bench-user")
	httpHostPort = common.GetEnvOrDefault("BENCH_HTTP_HOST_PORT", httpHostPort)
	brokerURL = common.GetEnvOrDefault("BENCH_BROKER_URL", brokerURL)
	maxDevices = common.GetEnvInt("BENCH_MAX_DEVICES", maxDevices)

	deviceIDs := make([]string, maxDevices)
	for i := range maxDevices {
		deviceIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v device IDs\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID("device1k-" + uuid.NewString()).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.WaitTimeout(10*time.Second) && token.Error() != nil {
		log.Fatal("Failed to connect to MQTT broker:", token.Error())
	}
	if !client.IsConnected() {
		log.Fatal("MQTT broker not available")
	}
	defer client.Disconnect(250)

	fmt.Printf("mqtt broker verified and connected\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			publishStatus(client, userID, deviceIDs[i])
			fmt.Printf("\rannounced device %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rannounced %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	topics := common.Mapper(deviceIDs, func(deviceID string) string {
		return fmt.Sprintf("poultry/%s/%s", userID, deviceID)
	})

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := range maxDevices {
		wg.Add(1)
		go func() {
			doAction(client, userID, deviceIDs[i], topics[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v devices: used time=%v seconds, throughput=%v action/second, failed=%v\n",
		maxDevices, usedTime.Seconds(), float64(published.Load())/usedTime.Seconds(), failed.Load(),
	)
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	val := min + rnd.Float64()*(max-min)
	rndMu.Unlock()
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(float64(val)*float64(multiplier))) / multiplier
}

func rndSleep() {
	rndMu.Lock()
	d := time.Duration(100+rnd.Int31n(1000)) * time.Millisecond
	rndMu.Unlock()
	time.Sleep(d)
}

func publish(client mqtt.Client, topic string, payload any) {
	data, _ := json.Marshal(payload)
	token := client.Publish(topic, 1, false, data)
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		failed.Add(1)
		fmt.Printf("\nerror: publish %s: %v\n", topic, token.Error())
		return
	}
	published.Add(1)
}

func publishStatus(client mqtt.Client, userID, deviceID string) {
	publish(client, fmt.Sprintf("devices/%s/%s/status", userID, deviceID), status{IsActive: flipCoin()})
}

func publishTelemetry(client mqtt.Client, topic string) {
	payload := telemetry{
		Temperature: rndFloat64(20.0, 40.0, 1),
		Humidity:    rndFloat64(30.0, 80.0, 1),
		Dust:        rndFloat64(0.0, 150.0, 1),
	}
	if flipCoin() {
		count := int(rndFloat64(0, 200, 0))
		payload.ChickCount = &count
	}
	publish(client, topic, payload)
}

func doAction(client mqtt.Client, userID, deviceID, topic string) {
	actions := []func(){
		func() { publishTelemetry(client, topic) },
		func() { publishStatus(client, userID, deviceID) },
		func() { publishTelemetry(client, topic) },
	}
	actionNames := []string{
		"Telemetry",
		"Status",
		"Telemetry",
	}
	rndMu.Lock()
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	rndMu.Unlock()
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for device %v", actionNames[index], deviceID)
		rndSleep()
	}
}
