package internal

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	playerRole = "jugador"

	// Win percentages are expressed over a fixed window of this many
	// tournaments.
	winWindow = 10.0

	rankingLimit = 10
)

// Every identifier reaches the store as a bound $n parameter.

func recentPlayersQuery() sq.SelectBuilder {
	return psql.Select("COUNT(*) AS jugadores_recientes").
		From("Usuario").
		Where(sq.Eq{"rol": playerRole}).
		Where("fecha_reg >= CURRENT_DATE - INTERVAL '1 month'")
}

func bestKDQuery(tournamentID int64) sq.SelectBuilder {
	return psql.Select(
		"j.nombre AS jugador",
		"t.nombre AS torneo",
		"SUM(e.kills)::FLOAT / NULLIF(SUM(e.deaths), 0) AS kd_ratio",
	).
		From("Estadistica e").
		Join("Jugador j ON e.id_jugador = j.id_jugador").
		Join("Partida p ON e.id_partida = p.id_partida").
		Join("Torneo t ON p.id_torneo = t.id_torneo").
		Where(sq.Eq{"t.id_torneo": tournamentID}).
		GroupBy("j.id_jugador", "j.nombre", "t.nombre").
		OrderBy("kd_ratio DESC NULLS LAST", "j.nombre").
		Limit(1)
}

func teamPlayersQuery(teamID int64) sq.SelectBuilder {
	return psql.Select("COUNT(*) AS cantidad_jugadores").
		From("Jugador").
		Where(sq.Eq{"id_equipo": teamID})
}

func mostAchievementsQuery() sq.SelectBuilder {
	return psql.Select("nombre", "logros").
		From("Equipo").
		OrderBy("logros DESC NULLS LAST", "nombre").
		Limit(1)
}

// Only finished tournaments (fecha_fin set) count as wins.
func winPercentageQuery() sq.SelectBuilder {
	return psql.Select("eq.nombre AS equipo").
		Column("COUNT(t.id_torneo)::FLOAT / ? * 100 AS porcentaje_victorias", winWindow).
		From("Torneo t").
		Join("Equipo eq ON t.id_equipo_ganador = eq.id_equipo").
		Where("t.fecha_fin IS NOT NULL").
		GroupBy("eq.id_equipo", "eq.nombre").
		OrderBy("porcentaje_victorias DESC", "eq.nombre").
		Limit(rankingLimit)
}

// LEFT JOIN keeps teams that never won, with a count of 0.
func tournamentsWonQuery() sq.SelectBuilder {
	return psql.Select("eq.nombre AS equipo", "COUNT(t.id_torneo) AS torneos_ganados").
		From("Equipo eq").
		LeftJoin("Torneo t ON t.id_equipo_ganador = eq.id_equipo").
		GroupBy("eq.id_equipo", "eq.nombre").
		OrderBy("torneos_ganados DESC", "eq.nombre")
}

func mostMembersQuery() sq.SelectBuilder {
	return psql.Select("eq.nombre AS equipo", "COUNT(j.id_jugador) AS numero_miembros").
		From("Equipo eq").
		Join("Jugador j ON eq.id_equipo = j.id_equipo").
		GroupBy("eq.id_equipo", "eq.nombre").
		OrderBy("numero_miembros DESC", "eq.nombre").
		Limit(1)
}

// The denominator is every match of the tournament, not only the team's.
func mapWinPercentageQuery(teamID, tournamentID int64) sq.SelectBuilder {
	return psql.Select("m.nombre AS mapa").
		Column(
			"COUNT(p.id_partida)::FLOAT / NULLIF((SELECT COUNT(*) FROM Partida WHERE id_torneo = ?), 0) * 100 AS porcentaje_victorias",
			tournamentID,
		).
		From("Partida p").
		Join("Mapa m ON p.id_mapa = m.id_mapa").
		Where(sq.Eq{"p.id_torneo": tournamentID}).
		Where(sq.Eq{"p.id_equipo_ganador": teamID}).
		GroupBy("m.id_mapa", "m.nombre").
		OrderBy("porcentaje_victorias DESC NULLS LAST", "m.nombre")
}

func mostUsedMapQuery(tournamentID int64) sq.SelectBuilder {
	return psql.Select("m.nombre AS mapa", "COUNT(p.id_partida) AS veces_usado").
		From("Partida p").
		Join("Mapa m ON p.id_mapa = m.id_mapa").
		Where(sq.Eq{"p.id_torneo": tournamentID}).
		GroupBy("m.id_mapa", "m.nombre").
		OrderBy("veces_usado DESC", "m.nombre").
		Limit(1)
}
