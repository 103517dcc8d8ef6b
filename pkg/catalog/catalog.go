// FILE: pkg/catalog/catalog.go
// PURPOSE: Closed catalog of recognized hazard codes. AI-suggested hazards
// are filtered against this table; codes outside it are discarded.

package catalog

// Category groups hazard codes by their nature.
type Category string

const (
	CategoryMechanical     Category = "mechanical"
	CategoryElectrical     Category = "electrical"
	CategoryChemical       Category = "chemical"
	CategoryBiological     Category = "biological"
	CategoryPhysical       Category = "physical"
	CategoryErgonomic      Category = "ergonomic"
	CategoryPsychosocial   Category = "psychosocial"
	CategoryOrganizational Category = "organizational"
)

// Entry describes one recognized hazard code.
type Entry struct {
	Code         string
	Category     Category
	Description  string
	ExampleRoles []string
}

// The table follows the numbering of the domestic workplace-hazard
// classification: 01-10 mechanical, 11-15 electrical, 16-21 chemical,
// 22-25 biological, 26-33 physical, 34-37 ergonomic, 38-41 psychosocial,
// 42-45 organizational.
var entries = []Entry{
	{"01", CategoryMechanical, "Rotirajući ili pokretni delovi mašina", []string{"operater na mašini", "tokar", "mlinar"}},
	{"02", CategoryMechanical, "Slobodno kretanje delova ili materijala koji mogu naneti povredu", []string{"magacioner", "građevinski radnik"}},
	{"03", CategoryMechanical, "Unutrašnji transport i kretanje radnih mašina i vozila", []string{"viljuškarista", "vozač dostavnog vozila"}},
	{"04", CategoryMechanical, "Korišćenje opasnih sredstava za rad", []string{"stolar", "bravar", "mesar"}},
	{"05", CategoryMechanical, "Rad na visini ili u dubini", []string{"monter skele", "fasader", "radnik u oknu"}},
	{"06", CategoryMechanical, "Klizav ili neravan radni prostor", []string{"kuvar", "radnik u perionici", "magacioner"}},
	{"07", CategoryMechanical, "Mogućnost zatrpavanja ili urušavanja", []string{"rudar", "radnik na iskopu"}},
	{"08", CategoryMechanical, "Pad predmeta sa visine", []string{"skladištar", "građevinski radnik"}},
	{"09", CategoryMechanical, "Oštri predmeti, sečiva i alati", []string{"mesar", "krojač", "staklorezac"}},
	{"10", CategoryMechanical, "Rad pod pritiskom fluida (posude, instalacije)", []string{"kotlovničar", "serviser kompresora"}},
	{"11", CategoryElectrical, "Opasnost od direktnog dodira delova pod naponom", []string{"elektroinstalater", "serviser uređaja"}},
	{"12", CategoryElectrical, "Opasnost od indirektnog dodira", []string{"elektroinstalater", "operater postrojenja"}},
	{"13", CategoryElectrical, "Toplotno dejstvo električne struje (pregrevanje, požar)", []string{"elektrotehničar", "zavarivač"}},
	{"14", CategoryElectrical, "Statički elektricitet", []string{"radnik u lakirnici", "operater punjenja goriva"}},
	{"15", CategoryElectrical, "Rad u blizini nadzemnih ili podzemnih vodova", []string{"rukovaoc dizalice", "radnik na iskopu"}},
	{"16", CategoryChemical, "Udisanje para, gasova i aerosola", []string{"moler", "lakirer", "hemijski tehničar"}},
	{"17", CategoryChemical, "Kontakt kože sa hemijskim materijama", []string{"čistačica", "galvanizer", "frizer"}},
	{"18", CategoryChemical, "Rad sa zapaljivim i eksplozivnim materijama", []string{"operater na pumpi", "skladištar hemije"}},
	{"19", CategoryChemical, "Udisanje prašine (mineralne, drvne, metalne)", []string{"stolar", "kamenorezac", "brusilac"}},
	{"20", CategoryChemical, "Rad sa kancerogenim ili mutagenim materijama", []string{"laborant", "radnik sa azbestom"}},
	{"21", CategoryChemical, "Nedovoljna koncentracija kiseonika u prostoru", []string{"radnik u šahtu", "radnik u silosu"}},
	{"22", CategoryBiological, "Izloženost infektivnim agensima", []string{"medicinska sestra", "laborant", "negovateljica"}},
	{"23", CategoryBiological, "Kontakt sa životinjama i proizvodima životinjskog porekla", []string{"veterinar", "radnik na farmi", "mesar"}},
	{"24", CategoryBiological, "Rad sa otpadnim vodama i otpadom", []string{"komunalni radnik", "radnik na deponiji"}},
	{"25", CategoryBiological, "Izloženost alergenima biološkog porekla", []string{"pekar", "cvećar", "radnik u mlinu"}},
	{"26", CategoryPhysical, "Buka", []string{"operater na presi", "radnik u proizvodnoj hali"}},
	{"27", CategoryPhysical, "Vibracije (šaka-ruka, celo telo)", []string{"rukovaoc pneumatskim alatom", "vozač radne mašine"}},
	{"28", CategoryPhysical, "Nepovoljni mikroklimatski uslovi (toplota, hladnoća, vlaga)", []string{"livac", "radnik u hladnjači", "pekar"}},
	{"29", CategoryPhysical, "Nedovoljna ili neodgovarajuća osvetljenost", []string{"kontrolor kvaliteta", "radnik u magacinu"}},
	{"30", CategoryPhysical, "Jonizujuće zračenje", []string{"radiološki tehničar", "defektoskopist"}},
	{"31", CategoryPhysical, "Nejonizujuće zračenje (UV, IC, elektromagnetno)", []string{"zavarivač", "operater predajnika"}},
	{"32", CategoryPhysical, "Rad na otvorenom, izloženost atmosferskim uticajima", []string{"građevinski radnik", "poštar", "čuvar"}},
	{"33", CategoryPhysical, "Povišen ili snižen atmosferski pritisak", []string{"ronilac", "kesonski radnik"}},
	{"34", CategoryErgonomic, "Ručno prenošenje tereta", []string{"magacioner", "dostavljač", "negovateljica"}},
	{"35", CategoryErgonomic, "Prinudan ili nefiziološki položaj tela", []string{"automehaničar", "keramičar", "zubni tehničar"}},
	{"36", CategoryErgonomic, "Dugotrajno sedenje ili stajanje", []string{"administrativni radnik", "prodavac", "vozač"}},
	{"37", CategoryErgonomic, "Ponavljajući pokreti i statičko opterećenje", []string{"radnik na traci", "daktilograf", "šivač"}},
	{"38", CategoryPsychosocial, "Stres na radnom mestu i psihičko opterećenje", []string{"dispečer", "operater u kol centru", "rukovodilac"}},
	{"39", CategoryPsychosocial, "Rad sa strankama, nasilje trećih lica", []string{"šalterski radnik", "kontrolor karata", "čuvar"}},
	{"40", CategoryPsychosocial, "Monotonija u radu", []string{"radnik na traci", "kontrolor nadzora"}},
	{"41", CategoryPsychosocial, "Odgovornost za živote i materijalna dobra", []string{"vozač autobusa", "rukovaoc dizalice", "medicinsko osoblje"}},
	{"42", CategoryOrganizational, "Noćni rad i smenski rad", []string{"medicinska sestra", "čuvar", "pekar"}},
	{"43", CategoryOrganizational, "Prekovremeni rad i produženo radno vreme", []string{"vozač", "sezonski radnik"}},
	{"44", CategoryOrganizational, "Usamljen rad, rad bez neposrednog nadzora", []string{"čuvar", "šumar", "serviser na terenu"}},
	{"45", CategoryOrganizational, "Neodgovarajuća obučenost za poslove koji se obavljaju", []string{"pripravnik", "sezonski radnik"}},
}

var byCode = func() map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Code] = e
	}
	return m
}()

// Exists reports whether code is part of the catalog.
func Exists(code string) bool {
	_, ok := byCode[code]
	return ok
}

// Lookup returns the catalog entry for code.
func Lookup(code string) (Entry, bool) {
	e, ok := byCode[code]
	return e, ok
}

// All returns every catalog entry in code order.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// ByCategory returns the entries of one category in code order.
func ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}
