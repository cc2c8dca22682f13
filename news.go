package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/wansing/news/auth"
	"github.com/wansing/news/backend"
	"github.com/wansing/news/config"
	"github.com/wansing/news/core"
	"github.com/wansing/news/filestore"
	"github.com/wansing/news/s3store"
	"github.com/wansing/news/sqldb"
	"github.com/wansing/news/util"
	"github.com/xo/dburl"
	"golang.org/x/term"
)

func setupLogging(cfg config.Log) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// no timestamps, on most systems systemd-journald adds them
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {

	var configPath string // is in both FlagSets
	var dbArg string      // is in both FlagSets

	// default FlagSet

	flag.StringVar(&configPath, "config", config.DefaultPath, "read configuration from this ini `file`")
	flag.StringVar(&dbArg, "db", "", "sql database url, see github.com/xo/dburl, overrides the config file")
	// Your reverse proxy must not strip the prefix. So if you're using nginx, the "proxy_pass" value should not end with a slash.
	var base = flag.String("base", "", "strip off this `prefix` from every HTTP request and prepend it to every link, overrides the config file")
	var listenAddr = flag.String("listen", "", "serve HTTP content at this `ip:port`, overrides the config file")

	// init FlagSet

	var initFlags = flag.NewFlagSet("init", flag.ExitOnError)

	initFlags.StringVar(&configPath, "config", config.DefaultPath, "read configuration from this ini `file`") // copied from above
	initFlags.StringVar(&dbArg, "db", "", "sql database url, see github.com/xo/dburl, overrides the config file")
	var initPasswd = initFlags.Bool("passwd", false, "sets the password of an existing user instead of creating one")
	var username = initFlags.String("user", "", "specifies a user `name`")

	if len(os.Args) > 1 && os.Args[1] == "init" {
		initFlags.Parse(os.Args[2:])
	} else {
		flag.Parse()
	}

	// config

	cfg, err := config.Load(configPath)
	setupLogging(cfg.Log)
	if err != nil {
		log.Error().Err(err).Msg("could not load config")
		return
	}

	if dbArg != "" {
		cfg.Database.URL = dbArg
	}
	if *listenAddr != "" {
		cfg.Server.Listen = *listenAddr
	}
	if *base != "" {
		cfg.Server.Base = *base
	}

	// database

	dbURL, err := dburl.Parse(cfg.Database.URL)
	if err != nil {
		log.Error().Err(err).Msg("could not parse database url")
		return
	}

	dialect, err := sqldb.DialectOf(dbURL.Driver)
	if err != nil {
		log.Error().Err(err).Msg("unsupported database")
		return
	}

	sqlDB, err := sql.Open(dbURL.Driver, dbURL.DSN)
	if err != nil {
		log.Error().Err(err).Msg("could not open sql database")
		return
	}

	defer func() {
		log.Info().Msg("closing database")
		sqlDB.Close()
	}()

	if err = sqlDB.Ping(); err != nil {
		log.Error().Err(err).Msg("could not ping sql database")
		return
	}

	log.Info().Msgf("using database %s", dbURL.Redacted())

	if err := sqldb.Migrate(sqlDB, dialect); err != nil {
		log.Error().Err(err).Msg("could not create tables")
		return
	}

	// assemble stuff

	var prefix = cfg.BasePrefix()

	db := &core.CoreDB{
		ArticleDB:       sqldb.NewArticleDB(sqlDB, dialect),
		CommentDB:       sqldb.NewCommentDB(sqlDB, dialect),
		Auth:            &auth.AuthDB{UserDB: sqldb.NewUserDB(sqlDB, dialect)},
		DefaultLanguage: cfg.Site.Lang,
		MaxUploadBytes:  cfg.Uploads.MaxSize,
		RecentLimit:     cfg.Site.Recent,
	}

	// init

	if initFlags.Parsed() {
		if *username == "" {
			log.Error().Msg("no user name given")
			return
		}
		if *initPasswd {
			setPassword(db.Auth, *username)
		} else {
			insertUser(db.Auth, *username)
		}
		return
	}

	var mux = http.NewServeMux()

	switch cfg.Uploads.Backend {
	case "s3":
		store, err := s3store.New(s3store.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			log.Error().Err(err).Msg("could not set up S3 uploads")
			return
		}
		db.Uploads = store
	default:
		if err := os.MkdirAll(cfg.Uploads.Dir, 0755); err != nil {
			log.Error().Err(err).Msg("could not create upload directory")
			return
		}
		store := &filestore.Store{
			Dir:       cfg.Uploads.Dir,
			URLPrefix: prefix + "/upload/",
		}
		util.Mount(mux, prefix+"/upload", store)
		db.Uploads = store
	}

	sessionStore, err := sqldb.NewSessionStore(sqlDB, dialect)
	if err != nil {
		log.Error().Err(err).Msg("could not create session store")
		return
	}

	if err = db.Init(sessionStore, prefix); err != nil {
		log.Error().Err(err).Msg("could not initialize")
		return
	}

	listen(db, mux, cfg.Server.Listen, prefix)
}

func readPassword() ([]byte, error) {

	fmt.Printf("password: ")
	pass1, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("error reading password: %w", err)
	}

	fmt.Printf("repeat password: ")
	pass2, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("error reading password: %w", err)
	}

	if !bytes.Equal(pass1, pass2) {
		return nil, fmt.Errorf("passwords don't match")
	}

	return pass1, nil
}

func insertUser(db *auth.AuthDB, name string) {

	fmt.Printf("creating user %s\n", name)
	pass, err := readPassword()
	if err != nil {
		log.Error().Err(err).Msg("")
		return
	}

	if _, err := db.InsertUser(context.Background(), name, string(pass)); err != nil {
		log.Error().Err(err).Str("user", name).Msg("error creating user")
		return
	}

	log.Info().Str("user", name).Msg("created user")
}

func setPassword(db *auth.AuthDB, name string) {

	user, err := db.GetUserByName(context.Background(), name)
	if err != nil {
		log.Error().Err(err).Str("user", name).Msg("error getting user")
		return
	}

	fmt.Printf("new password for user %s\n", name)
	pass, err := readPassword()
	if err != nil {
		log.Error().Err(err).Msg("")
		return
	}

	if err := db.SetPassword(context.Background(), user, string(pass)); err != nil {
		log.Error().Err(err).Msg("error setting password")
		return
	}

	log.Info().Str("user", name).Msg("changed password")
}

// accessLog wraps the zerolog request logger and access log around a handler.
func accessLog(h http.Handler) http.Handler {
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("")
	})(h)
	h = hlog.RequestIDHandler("req_id", "")(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.NewHandler(log.Logger)(h)
	return h
}

func listen(db *core.CoreDB, mux *http.ServeMux, addr string, prefix string) {

	// golang mux recovers from panics, so the program won't crash

	var inFlight util.InFlight

	util.Mount(mux, prefix, inFlight.Handler(backend.NewRouter(db, prefix)))

	// listener and listen

	sigintChannel := make(chan os.Signal, 1)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error().Err(err).Msg("could not listen")
		return
	}

	log.Info().Msgf("listening to %s", addr)

	httpSrv := &http.Server{
		Handler:      accessLog(db.SessionManager.LoadAndSave(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		if err := httpSrv.Serve(listener); err != nil {

			// don't panic, we want a graceful shutdown
			if err != http.ErrServerClosed {
				log.Error().Err(err).Msg("error listening")
			}

			// ensure graceful shutdown
			sigintChannel <- os.Interrupt
		}
	}()

	// graceful shutdown

	signal.Notify(sigintChannel, os.Interrupt, syscall.SIGTERM) // SIGINT (Interrupt) or SIGTERM
	<-sigintChannel

	log.Info().Msg("shutting down")
	httpSrv.Close()

	inFlight.Wait()
}
