package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"assume_server/routes"
	"assume_server/services"
	"assume_server/socket"
)

func main() {
	// Initialize DynamoDB client and document services
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	feedbackService := &services.FeedbackService{Dynamo: dynamoService}
	reportService := &services.ReportService{Dynamo: dynamoService}
	gameSessionService := &services.GameSessionService{Dynamo: dynamoService}
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	s3Service := services.InitializeS3Service()

	// Matchmaking core
	registry := services.NewConnectionRegistry()
	rooms := services.NewRoomService()
	scheduler := services.NewScheduler()
	defer scheduler.Stop()

	memoryQueue := services.NewInMemoryQueueStore()
	var queue services.QueueStore = memoryQueue
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr != "" {
		pool := services.NewRedisPool(redisAddr)
		queue = services.NewFailoverQueueStore(services.NewRedisQueueStore(pool, ""), memoryQueue)
		log.Printf("✅ Shared queue configured against redis at %s", redisAddr)
	} else {
		log.Println("⚠️ REDIS_ADDR not set, queue is in-memory (single instance only)")
	}

	matchService := services.NewMatchService(queue, rooms, registry, scheduler)
	if d := envSeconds("QUEUE_TIMEOUT_SECONDS"); d > 0 {
		matchService.QueueTimeout = d
	}
	if d := envSeconds("ROOM_TTL_SECONDS"); d > 0 {
		matchService.RoomTTL = d
	}
	if d := envSeconds("ROOM_SWEEP_SECONDS"); d > 0 {
		matchService.SweepInterval = d
	}
	relayService := services.NewRelayService()

	// Socket.IO server with /queue and /chat namespaces
	server := socket.NewSocketServer(matchService, relayService, redisAddr)
	go func() {
		if err := server.Serve(); err != nil {
			log.Fatalf("socket.io serve error: %v", err)
		}
	}()
	defer server.Close()

	stopSweep := matchService.Start()
	defer stopSweep()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()
	r.Handle("/socket.io/", server)

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Assume Chat API up and running!")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterFeedbackRoutes(r, feedbackService)
	routes.RegisterReportRoutes(r, reportService)
	routes.RegisterGameSessionRoutes(r, gameSessionService)
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterS3Routes(r, s3Service)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

// envSeconds reads a duration configured in whole seconds, 0 when unset.
func envSeconds(name string) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("⚠️ Ignoring invalid %s=%q", name, v)
		return 0
	}
	return time.Duration(n) * time.Second
}
