package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/IBM/sarama"
)

// StatLine is a partial stat line keyed by player and game. Omitted
// fields stay untouched on the server side.
type StatLine struct {
	PlayerID      int64    `json:"player_id"`
	GameID        int64    `json:"game_id"`
	Points        *int64   `json:"points,omitempty"`
	Rebounds      *int64   `json:"rebounds,omitempty"`
	Assists       *int64   `json:"assists,omitempty"`
	Steals        *int64   `json:"steals,omitempty"`
	Blocks        *int64   `json:"blocks,omitempty"`
	Turnovers     *int64   `json:"turnovers,omitempty"`
	MinutesPlayed *float64 `json:"minutes_played,omitempty"`
}

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }

// randomStatLine builds a plausible partial box-score update
func randomStatLine(players, games int) StatLine {
	line := StatLine{
		PlayerID: int64(rand.Intn(players) + 1),
		GameID:   int64(rand.Intn(games) + 1),
		Points:   i64(int64(rand.Intn(41))),
	}

	// Roughly half the lines carry the full counting stats
	if rand.Intn(2) == 0 {
		line.Rebounds = i64(int64(rand.Intn(16)))
		line.Assists = i64(int64(rand.Intn(13)))
		line.Steals = i64(int64(rand.Intn(5)))
		line.Blocks = i64(int64(rand.Intn(4)))
		line.Turnovers = i64(int64(rand.Intn(7)))
		line.MinutesPlayed = f64(float64(rand.Intn(481)) / 10)
	}

	return line
}

func main() {
	// Command line flags
	brokers := flag.String("brokers", "localhost:9094", "Kafka brokers (comma-separated)")
	topic := flag.String("topic", "stat-lines", "Kafka topic")
	totalPlayers := flag.Int("players", 15, "Number of player ids to emit stat lines for")
	totalGames := flag.Int("games", 82, "Number of game ids to emit stat lines for")
	updatesPerSecond := flag.Int("rate", 50, "Stat lines per second")
	duration := flag.Duration("duration", 0, "Duration to run (0 = forever)")
	flag.Parse()

	brokerList := strings.Split(*brokers, ",")

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("  🏀 Kafka Stat-Line Producer")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("  Brokers:       %s\n", *brokers)
	fmt.Printf("  Topic:         %s\n", *topic)
	fmt.Printf("  Players:       %d\n", *totalPlayers)
	fmt.Printf("  Games:         %d\n", *totalGames)
	fmt.Printf("  Lines/sec:     %d\n", *updatesPerSecond)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	// Configure Sarama producer
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForLocal
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Flush.Frequency = 100 * time.Millisecond
	config.Producer.Flush.Messages = 100
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true

	// Create producer
	producer, err := sarama.NewAsyncProducer(brokerList, config)
	if err != nil {
		log.Fatalf("Failed to create producer: %v", err)
	}
	defer producer.Close()

	// Handle producer errors and successes
	var successCount, errorCount int64
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range producer.Successes() {
			atomic.AddInt64(&successCount, 1)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for err := range producer.Errors() {
			atomic.AddInt64(&errorCount, 1)
			log.Printf("Producer error: %v", err)
		}
	}()

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})

	// Send message helper
	sendLine := func(line StatLine) {
		data, err := json.Marshal(line)
		if err != nil {
			log.Printf("Failed to marshal message: %v", err)
			return
		}

		// Key by player and game so a given stat line always lands on
		// the same partition and applies in order
		key := fmt.Sprintf("%d:%d", line.PlayerID, line.GameID)
		msg := &sarama.ProducerMessage{
			Topic: *topic,
			Key:   sarama.StringEncoder(key),
			Value: sarama.ByteEncoder(data),
		}

		select {
		case producer.Input() <- msg:
		case <-done:
			return
		}
	}

	fmt.Printf("Emitting stat lines (%d/sec)\n", *updatesPerSecond)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	interval := time.Second / time.Duration(*updatesPerSecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	statsTicker := time.NewTicker(5 * time.Second)
	defer statsTicker.Stop()

	var endTime time.Time
	if *duration > 0 {
		endTime = time.Now().Add(*duration)
	}

	var lineCount int64

	for {
		select {
		case <-sigChan:
			fmt.Println("\n\nShutting down...")
			close(done)
			producer.AsyncClose()
			wg.Wait()
			fmt.Printf("\n✓ Completed. Sent: %d, Errors: %d\n", atomic.LoadInt64(&successCount), atomic.LoadInt64(&errorCount))
			return

		case <-ticker.C:
			if *duration > 0 && time.Now().After(endTime) {
				fmt.Println("\n\nDuration reached, shutting down...")
				close(done)
				producer.AsyncClose()
				wg.Wait()
				fmt.Printf("\n✓ Completed. Sent: %d, Errors: %d\n", atomic.LoadInt64(&successCount), atomic.LoadInt64(&errorCount))
				return
			}

			sendLine(randomStatLine(*totalPlayers, *totalGames))
			atomic.AddInt64(&lineCount, 1)

		case <-statsTicker.C:
			lines := atomic.LoadInt64(&lineCount)
			success := atomic.LoadInt64(&successCount)
			errors := atomic.LoadInt64(&errorCount)
			fmt.Printf("[%s] Lines: %d | Sent: %d | Errors: %d\n",
				time.Now().Format("15:04:05"),
				lines,
				success,
				errors,
			)
		}
	}
}
