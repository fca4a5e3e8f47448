package internal

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options toggles the parts of the router that are not reporting endpoints.
type Options struct {
	// StaticDir holds home.html and the assets served under /public.
	// Empty disables both.
	StaticDir string
	Metrics   bool
}

func NewRouter(db DB, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())
	if opts.Metrics {
		r.Use(Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Frontend static
	if opts.StaticDir != "" {
		home := filepath.Join(opts.StaticDir, "home.html")
		r.Static("/public", opts.StaticDir)
		r.GET("/", func(c *gin.Context) { c.File(home) })
	}

	r.GET("/healthz", Health(db))

	q := r.Group("/consulta")
	{
		// scalar, text/plain
		q.GET("/jugadores-recientes", RecentPlayers(db))
		q.GET("/kd-torneo", BestKDInTournament(db))
		q.GET("/jugadores-equipo", PlayersInTeam(db))

		// application/json
		q.GET("/equipo-mas-logros", TeamWithMostAchievements(db))
		q.GET("/porcentaje-victorias", WinPercentagePerTeam(db))
		q.GET("/torneos-ganados", TournamentsWonPerTeam(db))
		q.GET("/equipo-mas-miembros", TeamWithMostMembers(db))
		q.GET("/porcentaje-victorias-mapas", WinPercentagePerMap(db))
		q.GET("/mapa-mas-usado", MostUsedMap(db))
	}

	return r
}
