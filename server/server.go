package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/autovm/autovm/config"
	"github.com/autovm/autovm/internal/controllers"
	"github.com/autovm/autovm/internal/db"
	"github.com/autovm/autovm/internal/payments"
	"github.com/autovm/autovm/logging"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

var log = logging.GetLogger().WithFields(logrus.Fields{"package": "server"})

func natsSubject(base string, fields ...string) string {
	trimmed := strings.TrimSuffix(
		strings.TrimSuffix(base, ".*"),
		".>",
	)
	addFields := strings.Join(fields, ".")
	return fmt.Sprintf("%s.%s", trimmed, addFields)
}

func natsQueue(qBase string, fields ...string) string {
	return fmt.Sprintf("%s.%s", qBase, strings.Join(fields, "."))
}

func queueSub(conn *nats.EncodedConn, spec *config.Specification, name string, handler nats.Handler) {
	var err error

	subject := natsSubject(spec.BaseSubject, name)
	queue := natsQueue(spec.BaseQueueName, name)

	if _, err = conn.QueueSubscribe(subject, queue, handler); err != nil {
		log.Fatal(err)
	}

	log.Infof("subscribed to %s on queue %s", subject, queue)
}

func InitNATS(spec *config.Specification) *nats.EncodedConn {
	nc, err := nats.Connect(
		spec.NatsCluster,
		nats.UserCredentials(spec.CredsPath),
		nats.RootCAs(spec.CACertPath),
		nats.ClientCert(spec.TLSCertPath, spec.TLSKeyPath),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(spec.MaxReconnects),
		nats.ReconnectWait(time.Duration(spec.ReconnectWait)*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Errorf("disconnected from nats: %s", err.Error())
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infof("reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Errorf("connection closed: %s", nc.LastError().Error())
		}),
	)
	if err != nil {
		log.Fatal(err)
	}

	log.Infof("configured servers: %s", strings.Join(nc.Servers(), " "))
	log.Infof("connected to NATS host: %s", nc.ConnectedServerName())

	conn, err := nats.NewEncodedConn(nc, nats.JSON_ENCODER)
	if err != nil {
		log.Fatal(err)
	}

	log.Infof("set up encoded connection to NATS")

	return conn
}

func Init(spec *config.Specification) {
	log := log.WithFields(logrus.Fields{"context": "server init"})

	e := InitRouter()

	// Establish the database connection.
	log.Info("establishing the database connection")
	db, gormdb, err := db.Init("postgres", spec.DatabaseURI)
	if err != nil {
		log.Fatalf("service initialization failed: %s", err.Error())
	}

	conn := InitNATS(spec)

	s := controllers.Server{
		Router:               e,
		DB:                   db,
		GORMDB:               gormdb,
		Service:              config.ServiceName,
		Title:                "AutoVM",
		Version:              "1.0.0",
		NATSConn:             conn,
		Payments:             payments.NewSimulatedClient(),
		VMAssignmentSubject:  natsSubject(spec.BaseSubject, "notify", "vm-assignment"),
		AccountStatusSubject: natsSubject(spec.BaseSubject, "notify", "account-status"),
	}

	// Register the handlers.
	RegisterHandlers(s)

	// The notification jobs published by the API handlers come back in on these queues.
	queueSub(conn, spec, "notify.vm-assignment", s.VMAssignmentNotificationHandler)
	queueSub(conn, spec, "notify.account-status", s.AccountStatusNotificationHandler)

	log.Info("starting the service")
	log.Fatal(e.Start(fmt.Sprintf(":%d", spec.ListenPort)))
}
