package internal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"esports-stats/internal/logging"
)

// Operation names, used in logs and metrics.
const (
	opRecentPlayers    = "jugadores-recientes"
	opBestKD           = "kd-torneo"
	opTeamPlayers      = "jugadores-equipo"
	opMostAchievements = "equipo-mas-logros"
	opWinPercentage    = "porcentaje-victorias"
	opTournamentsWon   = "torneos-ganados"
	opMostMembers      = "equipo-mas-miembros"
	opMapWinPercentage = "porcentaje-victorias-mapas"
	opMostUsedMap      = "mapa-mas-usado"
)

type tournamentParams struct {
	TournamentID string `form:"torneoId" binding:"required,dbid"`
}

type teamParams struct {
	TeamID string `form:"equipoId" binding:"required,dbid"`
}

type teamTournamentParams struct {
	TeamID       string `form:"equipoId" binding:"required,dbid"`
	TournamentID string `form:"torneoId" binding:"required,dbid"`
}

// ------------------- Scalar (text) -------------------

// GET /consulta/jugadores-recientes
func RecentPlayers(db Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := qCollect[recentPlayersRow](c.Request.Context(), db, opRecentPlayers, recentPlayersQuery())
		if err != nil {
			failText(c, opRecentPlayers, err)
			return
		}
		var n int64
		if len(rows) > 0 {
			n = rows[0].Count
		}
		c.String(http.StatusOK, "Cantidad de jugadores recientes: %d", n)
	}
}

// GET /consulta/kd-torneo?torneoId=
func BestKDInTournament(db Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tournamentParams
		if !bindParams(c, &req) {
			return
		}
		ctx := c.Request.Context()
		tournamentID := parseID(req.TournamentID)
		logging.Ctx(ctx).Debug().Str("operation", opBestKD).Int64("torneo_id", tournamentID).Msg("params received")

		rows, err := qCollect[bestKDRow](ctx, db, opBestKD, bestKDQuery(tournamentID))
		if err != nil {
			failText(c, opBestKD, err)
			return
		}
		if len(rows) == 0 {
			c.String(http.StatusOK, "No se encontraron jugadores para el torneo especificado.")
			return
		}

		best := rows[0]
		c.String(http.StatusOK,
			"El jugador con la mejor relacion K/D en el torneo %s es %s, con una relacion K/D de %s",
			best.Tournament, best.Player, formatRatio(best.Ratio),
		)
	}
}

// GET /consulta/jugadores-equipo?equipoId=
// A team nobody plays for is a count of 0, not a miss.
func PlayersInTeam(db Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req teamParams
		if !bindParams(c, &req) {
			return
		}
		ctx := c.Request.Context()
		teamID := parseID(req.TeamID)
		logging.Ctx(ctx).Debug().Str("operation", opTeamPlayers).Int64("equipo_id", teamID).Msg("params received")

		rows, err := qCollect[teamPlayersRow](ctx, db, opTeamPlayers, teamPlayersQuery(teamID))
		if err != nil {
			failText(c, opTeamPlayers, err)
			return
		}
		if len(rows) == 0 {
			c.String(http.StatusOK, "No se encontraron jugadores para el equipo especificado.")
			return
		}
		c.String(http.StatusOK, "El equipo con ID %d tiene %d jugadores.", teamID, rows[0].Count)
	}
}

// ------------------- Single row (JSON) -------------------

// GET /consulta/equipo-mas-logros
func TeamWithMostAchievements(db Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := qCollect[TeamAchievements](c.Request.Context(), db, opMostAchievements, mostAchievementsQuery())
		if err != nil {
			failJSON(c, opMostAchievements, err)
			return
		}
		if len(rows) == 0 {
			notFound(c, "No se encontraron equipos.")
			return
		}
		renderJSON(c, http.StatusOK, rows[0])
	}
}

// GET /consulta/equipo-mas-miembros
func TeamWithMostMembers(db Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := qCollect[TeamMembers](c.Request.Context(), db, opMostMembers, mostMembersQuery())
		if err != nil {
			failJSON(c, opMostMembers, err)
			return
		}
		if len(rows) == 0 {
			notFound(c, "No se encontraron equipos.")
			return
		}
		renderJSON(c, http.StatusOK, rows[0])
	}
}

// ------------------- Ranked lists (JSON) -------------------

// GET /consulta/porcentaje-victorias
func WinPercentagePerTeam(db Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := qCollect[TeamWinPercentage](c.Request.Context(), db, opWinPercentage, winPercentageQuery())
		if err != nil {
			failJSON(c, opWinPercentage, err)
			return
		}
		if len(rows) == 0 {
			notFound(c, "No se encontraron equipos con victorias.")
			return
		}
		renderJSON(c, http.StatusOK, rows)
	}
}

// GET /consulta/torneos-ganados
func TournamentsWonPerTeam(db Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := qCollect[TeamTitles](c.Request.Context(), db, opTournamentsWon, tournamentsWonQuery())
		if err != nil {
			failJSON(c, opTournamentsWon, err)
			return
		}
		if len(rows) == 0 {
			notFound(c, "No se encontraron equipos con torneos ganados.")
			return
		}
		renderJSON(c, http.StatusOK, rows)
	}
}

// GET /consulta/porcentaje-victorias-mapas?equipoId=&torneoId=
func WinPercentagePerMap(db Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req teamTournamentParams
		if !bindParams(c, &req) {
			return
		}
		ctx := c.Request.Context()
		teamID, tournamentID := parseID(req.TeamID), parseID(req.TournamentID)
		logging.Ctx(ctx).Debug().
			Str("operation", opMapWinPercentage).
			Int64("equipo_id", teamID).
			Int64("torneo_id", tournamentID).
			Msg("params received")

		rows, err := qCollect[MapWinPercentage](ctx, db, opMapWinPercentage, mapWinPercentageQuery(teamID, tournamentID))
		if err != nil {
			failJSON(c, opMapWinPercentage, err)
			return
		}
		if len(rows) == 0 {
			notFound(c, "No se encontraron victorias del equipo en el torneo.")
			return
		}
		renderJSON(c, http.StatusOK, rows)
	}
}

// GET /consulta/mapa-mas-usado?torneoId=
// Answers a one-element array.
func MostUsedMap(db Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tournamentParams
		if !bindParams(c, &req) {
			return
		}
		ctx := c.Request.Context()
		tournamentID := parseID(req.TournamentID)
		logging.Ctx(ctx).Debug().Str("operation", opMostUsedMap).Int64("torneo_id", tournamentID).Msg("params received")

		rows, err := qCollect[MapUsage](ctx, db, opMostUsedMap, mostUsedMapQuery(tournamentID))
		if err != nil {
			failJSON(c, opMostUsedMap, err)
			return
		}
		if len(rows) == 0 {
			notFound(c, "No se encontraron partidas para el torneo especificado.")
			return
		}
		renderJSON(c, http.StatusOK, rows)
	}
}

// ------------------- Health -------------------

// GET /healthz
func Health(db DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
			logging.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check failed")
			renderJSON(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		renderJSON(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
