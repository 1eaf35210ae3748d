package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/tickethub/storefront/lib/myblobstore"
	"github.com/tickethub/storefront/lib/myhttpclient"
	"github.com/tickethub/storefront/lib/mylog"
	"github.com/tickethub/storefront/lib/mypublisher"
	"github.com/tickethub/storefront/lib/mypubsub"
	"github.com/tickethub/storefront/lib/myqueue"
	"github.com/tickethub/storefront/lib/myrandom"
	"github.com/tickethub/storefront/lib/mystore"
	"github.com/tickethub/storefront/lib/mytime"
	"github.com/tickethub/storefront/lib/myuuid"
	"github.com/tickethub/storefront/services/cart"
	"github.com/tickethub/storefront/services/catalog"
	"github.com/tickethub/storefront/services/checkout"
	"github.com/tickethub/storefront/services/orders"
	"github.com/tickethub/storefront/services/session"
)

type config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	AuthAPIURL    string `envconfig:"AUTH_API_URL" default:"http://localhost:9090"`
	SessionCookie string `envconfig:"SESSION_COOKIE" default:"tickethub_session"`
}

func main() {
	c := context.Background()

	// Local development convenience, absent in production
	godotenv.Load()

	cfg := config{}
	err := envconfig.Process("", &cfg)
	if err != nil {
		log.Fatalf("Error reading configuration: %s", err)
	}

	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}
	randomer := myrandom.RealRandomer{}

	router := mux.NewRouter()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}
	defer queueCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		log.Fatalf("Error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	blobStore, blobStoreCleanup, err := myblobstore.New(c)
	if err != nil {
		log.Fatalf("Error creating blob store: %s", err)
	}
	defer blobStoreCleanup()

	salesStore, salesStoreCleanup, err := mystore.New[catalog.EventSales](c)
	if err != nil {
		log.Fatalf("Error creating sales store: %s", err)
	}
	defer salesStoreCleanup()

	sessionStore, sessionStoreCleanup, err := mystore.New[session.Session](c)
	if err != nil {
		log.Fatalf("Error creating session store: %s", err)
	}
	defer sessionStoreCleanup()

	catalogService := catalog.NewService(salesStore, pubsub, mylog.New("catalog"))
	err = catalogService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering catalog service: %s", err)
	}

	cartEngine := cart.NewEngine(blobStore, nower, mylog.New("cart"))
	cartService := cart.NewService(cartEngine, uuider, mylog.New("cart"))
	cartService.RegisterEndpoints(c, router)

	sessionService := session.NewService(sessionStore, myhttpclient.New(), cfg.AuthAPIURL, cfg.SessionCookie, nower, uuider, mylog.New("session"))
	sessionService.RegisterEndpoints(c, router)

	checkoutService := checkout.NewService(blobStore, cartEngine, sessionService, publisher, queue, nower, randomer, uuider, mylog.New("checkout"))
	err = checkoutService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering checkout service: %s", err)
	}

	ordersService := orders.NewService(blobStore, uuider, mylog.New("orders"))
	ordersService.RegisterEndpoints(c, router)

	startWebServerBlocking(router, cfg.Port)
}

func startWebServerBlocking(router *mux.Router, port string) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
