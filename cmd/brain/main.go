package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	orchestration "github.com/grandrevier/concierge-core/core"
	"github.com/grandrevier/concierge-core/core/llms/groq"
	sttdeepgram "github.com/grandrevier/concierge-core/core/speechtotext/deepgram"
	ttsdeepgram "github.com/grandrevier/concierge-core/core/texttospeech/deepgram"
	"github.com/grandrevier/concierge-core/core/wire"
	"github.com/grandrevier/concierge-core/hotel"
)

const systemPrompt = `You are the concierge of the Grand Revier Hotel: warm, professional, and a little old-fashioned. You help guests check room availability, learn about rooms, make bookings, and answer questions about the hotel using its manual.

Keep responses short and conversational, suitable for being read aloud. Never mention the names of your internal functions or tools to the guest; describe what you did in plain words instead. If you cannot help with something, say so politely and suggest speaking with the front desk.`

func main() {
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	groqAPIKey := os.Getenv("GROQ_API_KEY")
	if groqAPIKey == "" {
		log.Fatal("GROQ_API_KEY is not set")
	}

	var groqOpts []groq.ClientOption
	if model := os.Getenv("GROQ_MODEL"); model != "" {
		groqOpts = append(groqOpts, groq.WithModel(model))
	}
	llm, err := groq.NewClient(groqAPIKey, groqOpts...)
	if err != nil {
		log.Fatalf("Failed to create groq client: %v", err)
	}

	dsn := os.Getenv("HOTEL_DB_PATH")
	if dsn == "" {
		dsn = "hotel.db"
	}
	store, err := hotel.OpenStore(dsn)
	if err != nil {
		log.Fatalf("Failed to open hotel store: %v", err)
	}
	defer store.Close()

	catalog := hotel.Tools(store, hotel.NewManual())

	voice := ttsdeepgram.VoiceThalia
	if id := os.Getenv("TTS_VOICE"); id != "" {
		voice, err = ttsdeepgram.ParseVoice(id)
		if err != nil {
			log.Fatalf("Failed to parse voice: %v", err)
		}
	}
	textToSpeech, err := ttsdeepgram.NewTextToSpeechClient(ctx, voice)
	if err != nil {
		log.Fatalf("Failed to create text to speech client: %v", err)
	}

	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithSystemPrompt(systemPrompt),
		orchestration.WithLLM(llm),
		orchestration.WithTools(catalog...),
		orchestration.WithSpeechToTextClient(sttdeepgram.NewTranscriptionClient()),
		orchestration.WithTextToSpeechClient(textToSpeech),
	)

	server := wire.NewServer(os.Stdin, os.Stdout, orchestrator)
	if err := server.Serve(ctx); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
