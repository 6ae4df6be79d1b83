package catalog

// Cities is the fixed allowed-values list for the city autocomplete.
// Answers must match one entry exactly to validate.
var Cities = []string{
	"Ancona",
	"Bari",
	"Bergamo",
	"Bologna",
	"Bolzano",
	"Brescia",
	"Cagliari",
	"Catania",
	"Ferrara",
	"Firenze",
	"Genova",
	"Lecce",
	"Livorno",
	"Messina",
	"Milano",
	"Modena",
	"Napoli",
	"Padova",
	"Palermo",
	"Parma",
	"Perugia",
	"Pescara",
	"Pisa",
	"Prato",
	"Ravenna",
	"Reggio Calabria",
	"Reggio Emilia",
	"Rimini",
	"Roma",
	"Salerno",
	"Siena",
	"Taranto",
	"Torino",
	"Trento",
	"Trieste",
	"Udine",
	"Venezia",
	"Verona",
	"Vicenza",
}
