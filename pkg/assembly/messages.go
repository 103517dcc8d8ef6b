// FILE: pkg/assembly/messages.go
// PURPOSE: User-facing texts of the assembly conversation, in the working
// locale (Serbian).

package assembly

const (
	msgWelcome = "Krenimo sa izradom Akta o proceni rizika. Prvo mi trebaju osnovni podaci o firmi."

	msgClarifyPreamble = "Nisam uspeo da razumem odgovor. "

	qCompanyName          = "Kako se zove vaša firma (pun naziv iz APR-a)?"
	qCompanyPIB           = "Koji je PIB firme (9 cifara)?"
	qCompanyAddress       = "Koja je adresa sedišta firme (ulica i broj)?"
	qCompanyCity          = "U kom mestu je sedište firme?"
	qDirectorName         = "Ko je direktor firme (ime i prezime)?"
	qDirectorJMBG         = "Koji je JMBG direktora (13 cifara)?"
	qSafetyOfficerName    = "Ko je lice zaduženo za bezbednost i zdravlje na radu (ime i prezime)?"
	qSafetyOfficerJMBG    = "Koji je JMBG lica za bezbednost (13 cifara)?"
	qActivityCode         = "Koja je šifra delatnosti firme (4 cifre, npr. 4520)?"
	qActivityDescription  = "Kako biste opisali delatnost firme?"
	qEmployeeCount        = "Koliko zaposlenih ima firma?"

	msgCompanyDone = "Odlično, podaci o firmi su kompletni. Sada prelazimo na radna mesta."

	qPositionName    = "Kako se zove radno mesto koje želite da obradite (npr. vozač, prodavac)?"
	qWorkerCount     = "Koliko zaposlenih radi na ovom radnom mestu?"
	qWorkDescription = "Opišite ukratko poslove koji se obavljaju na ovom radnom mestu."

	qHazardName     = "Koja opasnost ili štetnost postoji na ovom radnom mestu?"
	qHazardE        = "Kolika je izloženost opasnosti — E, broj od 1 do 10?"
	qHazardP        = "Kolika je verovatnoća nastanka povrede — P, broj od 1 do 10?"
	qHazardF        = "Kolika je učestalost izlaganja — F, broj od 1 do 10?"
	qMeasures       = "Koje mere predviđate za smanjenje ovog rizika? Možete navesti više mera odvojenih zarezom."
	qResidual       = "Koliki je preostali rizik nakon primene mera (jedan broj)?"
	qAnotherHazard   = "Da li postoji još neka opasnost na ovom radnom mestu? (da/ne)"
	qAnotherPosition = "Da li želite da dodate još neko radno mesto? (da/ne)"

	qConfirm = "Da li želite da završim dokument sa ovim podacima? (da/ne)"

	msgHazardRecorded  = "Opasnost je zabeležena."
	msgDocumentReady   = "Dokument je spreman. Akt o proceni rizika se generiše i uskoro će biti dostupan za preuzimanje."
	msgKeepEditing     = "U redu, nastavljamo sa izmenama."
	msgSuggestionIntro = "Na osnovu opisa poslova, ovo su tipične opasnosti za ovakvo radno mesto:"
	msgSuggestionHint  = "Možete izabrati neku od predloženih ili navesti svoju."
)
