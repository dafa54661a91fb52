package catalog

// Builtin returns the SwiftTranslator catalog: one real-time UI check, 24
// positive functional cases and 10 negative ones. A fresh slice is returned on
// every call.
func Builtin() []Case {
	out := make([]Case, len(builtin))
	copy(out, builtin)
	return out
}

var builtin = []Case{
	{ID: "Pos_UI_0001", Input: "mama gedhara yanavaa.", SkipClear: true, NoPreview: true,
		Title: "Sinhala output updates in real-time when typing"},

	{ID: "Pos_Fun_0001", Input: "aayuboowan!"},
	{ID: "Pos_Fun_0002", Input: "suba udhaesanak!"},
	{ID: "Pos_Fun_0003", Input: "mama gedhara innaawa."},
	{ID: "Pos_Fun_0004", Input: "mata udhavvak karanna puluvandha?"},
	{ID: "Pos_Fun_0005", Input: "vahaama enna."},
	{ID: "Pos_Fun_0006", Input: "mama ennee nae."},
	{ID: "Pos_Fun_0007", Input: "api kaeema kanavaa saha passe film ekak balanavaa."},
	{ID: "Pos_Fun_0008", Input: "oya enavaanam api yamu, naththam mama gedhara innaawa."},
	{ID: "Pos_Fun_0009", Input: "oyaa kavadhdha ennee?"},
	{ID: "Pos_Fun_0010", Input: "api yamu."},
	{ID: "Pos_Fun_0011", Input: "eyaalaa enavaa."},
	{ID: "Pos_Fun_0012", Input: "mama iiyee gedhara giyaa."},
	{ID: "Pos_Fun_0013", Input: "mama heta enavaa."},
	{ID: "Pos_Fun_0014", Input: "karunaakaralaa mata podi udhavvak karanna puluvandha?"},
	{ID: "Pos_Fun_0015", Input: "eeyi, oya enne."},
	{ID: "Pos_Fun_0016", Input: "hari hari, yamu."},
	{ID: "Pos_Fun_0017", Input: "mata bath oonee."},
	{ID: "Pos_Fun_0018", Input: "mama WhatsApp eken msg ekak evannam."},
	{ID: "Pos_Fun_0019", Input: "api Colombo yanna hadhannee traffic nisaa."},
	{ID: "Pos_Fun_0020", Input: "oyaa hariyata vaeda karanavaadha? (mama check karanavaa!)"},
	{ID: "Pos_Fun_0021", Input: "mata Rs. 5343 wage ganak onee."},
	{ID: "Pos_Fun_0022", Input: "7.30 AM wenakota enna, mama ready."},
	{ID: "Pos_Fun_0023", Input: "mama gedhara yanavaa.\noyaa enavadha maath ekka?"},
	{ID: "Pos_Fun_0024", Input: "adha api university eka langa thiyena event ekata giyoth, oyaa maath ekka yanna puluvandha? " +
		"mama kalin ticket eka ganna oonee. ehema unoth api passe lunch eka kanna yamu. " +
		"oyaata time eka hariyata set wenawada kiyala kiyanna. mama eyaata anuwa plan karannam."},

	{ID: "Neg_Fun_0001", Input: "mamageharayanavaa"},
	{ID: "Neg_Fun_0002", Input: "mata nidhimthayi."},
	{ID: "Neg_Fun_0003", Input: "adoo bn eka poddak awul wagenee."},
	{ID: "Neg_Fun_0004", Input: "mama OTP eka gatta, habai PIN eka waradi."},
	{ID: "Neg_Fun_0005", Input: "mama     gedhara     yanavaa."},
	{ID: "Neg_Fun_0006", Input: "mama (gedhara) yanavaa!!! #urgent"},
	{ID: "Neg_Fun_0007", Input: "oyaata kohomada"},
	{ID: "Neg_Fun_0008", Input: `mama adha office giyaa. meeting eka 10.00 AM. habai manager kiwwa "update ASAP" kiyala. ` +
		`eeta passe api new project eka start karanna onee. budget USD 1500 wage. oyaata puluvandha eeka handle karanna?`},
	{ID: "Neg_Fun_0009", Input: "25/12/2025dawasataColomboyamu"},
	{ID: "Neg_Fun_0010", Input: "mama gedhara"},
}
