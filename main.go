package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/maktse/pollloop-backend/api/admin"
	"github.com/maktse/pollloop-backend/api/auth"
	apipoll "github.com/maktse/pollloop-backend/api/poll"
	apiprofile "github.com/maktse/pollloop-backend/api/profile"
	apirel "github.com/maktse/pollloop-backend/api/relationship"
	apiresp "github.com/maktse/pollloop-backend/api/response"
	"github.com/maktse/pollloop-backend/api/socket"
	"github.com/maktse/pollloop-backend/db"
	"github.com/maktse/pollloop-backend/graph"
	"github.com/maktse/pollloop-backend/mq"
	"github.com/maktse/pollloop-backend/notify"
	"github.com/maktse/pollloop-backend/redis"
	"github.com/maktse/pollloop-backend/relationship"
	"github.com/maktse/pollloop-backend/response"
	"github.com/maktse/pollloop-backend/server"
	"github.com/maktse/pollloop-backend/simulate"
	"github.com/maktse/pollloop-backend/store"
	"github.com/maktse/pollloop-backend/visibility"
	"github.com/maktse/pollloop-backend/ws"
	"github.com/nsqio/go-nsq"
)

func cleanup(hub *ws.Hub, consumer *nsq.Consumer) {
	if consumer != nil {
		consumer.Stop()
	}
	mq.StopProducer()
	hub.Close()
}

func main() {
	logger := log.New(os.Stdout, "pollloop ", log.LstdFlags|log.Lshortfile)

	st := store.New(db.Get())
	graphSvc := graph.NewService(st)
	engine := visibility.NewEngine(st, graphSvc)
	relSvc := relationship.NewService(st, mq.NewEmitter(logger))
	respSvc := response.NewService(st)
	sim := simulate.NewSimulator(engine)

	presence := redis.NewPresence()
	hub := ws.NewHub(logger, presence)
	go hub.Run()

	dispatcher := notify.NewDispatcher(logger, hub, presence, st)
	consumer, err := mq.StartRelationshipConsumer(logger, dispatcher.Handle)
	if err != nil {
		logger.Fatalln(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cleanup(hub, consumer)
		fmt.Println("quit")
		os.Exit(0)
	}()

	r := chi.NewRouter()
	server.SetupMiddlewares(r)

	auth.NewHandlers(logger).SetupRoutes(r)
	apiprofile.NewHandlers(logger, engine).SetupRoutes(r)
	apirel.NewHandlers(logger, relSvc, graphSvc).SetupRoutes(r)
	apipoll.NewHandlers(logger, engine).SetupRoutes(r)
	apiresp.NewHandlers(logger, engine, respSvc).SetupRoutes(r)
	admin.NewHandlers(logger, sim).SetupRoutes(r)
	socket.NewHandlers(logger, hub).SetupRoutes(r)

	srv := server.New(r)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalln(err)
	}
}
