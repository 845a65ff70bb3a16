package main

import (
	"context"
	"evtix/src/config"
	"evtix/src/controllers"
	"evtix/src/lib"
	"evtix/src/middlewares"
	"evtix/src/store"
	"evtix/src/utils"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	_ "github.com/joho/godotenv/autoload"
	engineiotypes "github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

const (
	apiPrefix string = "/api/v1"
)

var eventDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	return err == nil
}

// gtefield enforces EndDate >= StartDate on event creation.
var gtefield validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	fielddatetime, err := time.Parse(config.DATE_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	return !fielddatetime.After(datetime)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("eventdate", eventDateValidatorFunc)
		v.RegisterValidation("gtedate", gtefield)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	return router
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func guestAuthRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	guest := apiv1.Group("/auth")
	guest.
		POST("/register", func(ctx *gin.Context) {
			uid, status, err := controllers.AuthRegister(ctx)
			if err != nil {
				log.Printf("[AuthRegister] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"uid": uid})
		}).
		POST("/login", middlewares.VerifyIdToken, func(ctx *gin.Context) {
			user, status, err := controllers.AuthLogin(ctx)
			if err != nil {
				log.Printf("[AuthLogin] error: %s\n", err.Error())
				ctx.Status(status)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		})
	return guest
}

// setupSocketServer mounts the live ticket subscription: a client emits
// "watch" with a ticket ID and receives a "ticket" event carrying the full
// record on every change until it disconnects.
func setupSocketServer(r *gin.Engine) *socket.Server {
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	c.SetPingInterval(time.Second)
	c.SetPingTimeout(200 * time.Millisecond)
	c.SetMaxHttpBufferSize(1_000_000)
	c.SetConnectTimeout(time.Second)
	c.SetCors(&engineiotypes.Cors{
		Origin:      "*",
		Credentials: true,
	})

	wss := socket.NewServer(nil, nil)
	wss.Of("/tickets", nil).On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		log.Printf("[newclient]: %s %s\n", string(client.Id()), client.Nsp().Name())
		client.On("watch", func(args ...any) {
			if len(args) < 1 {
				return
			}
			ticketId, ok := args[0].(string)
			if !ok {
				return
			}
			ctx, cancel := context.WithCancel(context.Background())
			ch, err := store.GetStore().WatchTicket(ctx, ticketId)
			if err != nil {
				log.Printf("Error watching Ticket [%s]: %s\n", ticketId, err.Error())
				client.Emit("watch-error", err.Error())
				cancel()
				return
			}
			client.On("disconnect", func(...any) {
				cancel()
			})
			go func() {
				for ticket := range ch {
					client.Emit("ticket", ticket)
				}
			}()
		})
	})

	r.GET("/socket.io/*any", gin.WrapH(wss.ServeHandler(c)))
	r.POST("/socket.io/*any", gin.WrapH(wss.ServeHandler(c)))
	return wss
}

func initLogger() {
	cwd, _ := os.Getwd()
	serverLogs := path.Join(cwd, "logs", "server.log")
	apiLogs := path.Join(cwd, "logs", "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == "local" {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()

	router := setupRouter()
	wss := setupSocketServer(router)
	if wss != nil {
		log.Println("WS server listening for connections...")
	}

	if apiEnv == "local" {
		router.Use(cors.Default())
	} else {
		cc := cors.DefaultConfig()
		cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
		cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization")
		cc.AllowOrigins = []string{config.GetCorsOrigin()}
		cc.AllowCredentials = true
		router.Use(cors.New(cc))
	}

	registerValidators()

	apiv1 := apiv1Group(router)
	publicEventHandlers(apiv1)

	guestAuthRoutes(router)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.VerifyIdToken, middlewares.AuthMiddleware)
	{
		eventHandlers(authorized)
		ticketHandlers(authorized)
		checkinHandlers(authorized)
	}

	if sched, err := lib.GetScheduler(); err == nil {
		if _, err := lib.CreateCronJob(utils.AuditCapacity, time.Hour); err != nil {
			log.Printf("Error scheduling capacity audit: %s\n", err.Error())
		}
		sched.Start()
	}

	if err := router.Run(":" + config.GetPort()); err != nil {
		log.Fatalf("Failed to start server: %s", err)
	}
}
