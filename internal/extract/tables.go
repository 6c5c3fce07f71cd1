package extract

// Static alias dictionaries. Keys are lowercase surface forms, values are
// canonical identifiers. The dictionaries are lookup data, not logic: they are
// loaded once by NewRegistry and never mutated.

var teamAliases = map[string]string{
	// NBA
	"los angeles lakers": "NBA_LAL", "la lakers": "NBA_LAL", "lakers": "NBA_LAL",
	"boston celtics": "NBA_BOS", "celtics": "NBA_BOS",
	"golden state warriors": "NBA_GSW", "warriors": "NBA_GSW",
	"denver nuggets": "NBA_DEN", "nuggets": "NBA_DEN",
	"milwaukee bucks": "NBA_MIL", "bucks": "NBA_MIL",
	"oklahoma city thunder": "NBA_OKC", "okc thunder": "NBA_OKC", "thunder": "NBA_OKC",
	"new york knicks": "NBA_NYK", "knicks": "NBA_NYK",

	// NFL
	"kansas city chiefs": "NFL_KC", "chiefs": "NFL_KC",
	"philadelphia eagles": "NFL_PHI", "eagles": "NFL_PHI",
	"san francisco 49ers": "NFL_SF", "49ers": "NFL_SF", "niners": "NFL_SF",
	"buffalo bills": "NFL_BUF", "bills": "NFL_BUF",
	"dallas cowboys": "NFL_DAL", "cowboys": "NFL_DAL",
	"detroit lions": "NFL_DET", "lions": "NFL_DET",
	"baltimore ravens": "NFL_BAL", "ravens": "NFL_BAL",

	// MLB
	"new york yankees": "MLB_NYY", "yankees": "MLB_NYY",
	"los angeles dodgers": "MLB_LAD", "dodgers": "MLB_LAD",
	"atlanta braves": "MLB_ATL", "braves": "MLB_ATL",
	"houston astros": "MLB_HOU", "astros": "MLB_HOU",

	// NHL
	"edmonton oilers": "NHL_EDM", "oilers": "NHL_EDM",
	"florida panthers": "NHL_FLA",
	"colorado avalanche": "NHL_COL", "avalanche": "NHL_COL",
	"toronto maple leafs": "NHL_TOR", "maple leafs": "NHL_TOR",

	// Soccer
	"manchester city": "SOC_MCI", "man city": "SOC_MCI",
	"manchester united": "SOC_MUN", "man united": "SOC_MUN", "man utd": "SOC_MUN",
	"real madrid": "SOC_RMA",
	"barcelona":   "SOC_BAR", "fc barcelona": "SOC_BAR",
	"liverpool":     "SOC_LIV",
	"arsenal":       "SOC_ARS",
	"bayern munich": "SOC_BAY", "bayern": "SOC_BAY",
	"paris saint-germain": "SOC_PSG", "paris saint germain": "SOC_PSG", "psg": "SOC_PSG",
	"inter milan": "SOC_INT",

	// Esports
	"team vitality": "ES_VIT", "vitality": "ES_VIT", "vit": "ES_VIT",
	"team falcons": "ES_FAL", "falcons esports": "ES_FAL", "fal": "ES_FAL",
	"natus vincere": "ES_NAVI", "navi": "ES_NAVI",
	"faze clan": "ES_FAZE", "faze": "ES_FAZE",
	"g2 esports": "ES_G2", "g2": "ES_G2",
	"team spirit": "ES_SPIRIT",
	"mouz":        "ES_MOUZ", "mousesports": "ES_MOUZ",
	"t1": "ES_T1",
	"gen.g": "ES_GENG", "geng": "ES_GENG", "gen g": "ES_GENG",
	"team liquid": "ES_TL", "liquid": "ES_TL",
	"fnatic": "ES_FNC", "fnc": "ES_FNC",
	"cloud9": "ES_C9", "cloud 9": "ES_C9", "c9": "ES_C9",
	"astralis": "ES_AST",
	"heroic":   "ES_HEROIC",

	// Combat sports fighters are modeled as teams for matchup purposes.
	"jon jones":        "CMB_JONES",
	"islam makhachev":  "CMB_MAKHACHEV",
	"alex pereira":     "CMB_PEREIRA",
	"ilia topuria":     "CMB_TOPURIA",
	"canelo alvarez":   "CMB_CANELO", "canelo": "CMB_CANELO",
	"tyson fury":       "CMB_FURY",
	"oleksandr usyk":   "CMB_USYK", "usyk": "CMB_USYK",

	// Tennis
	"novak djokovic": "TEN_DJOKOVIC", "djokovic": "TEN_DJOKOVIC",
	"carlos alcaraz": "TEN_ALCARAZ", "alcaraz": "TEN_ALCARAZ",
	"jannik sinner": "TEN_SINNER", "sinner": "TEN_SINNER",
	"iga swiatek": "TEN_SWIATEK", "swiatek": "TEN_SWIATEK",
	"aryna sabalenka": "TEN_SABALENKA", "sabalenka": "TEN_SABALENKA",

	// Motorsport
	"max verstappen": "F1_VERSTAPPEN", "verstappen": "F1_VERSTAPPEN",
	"lando norris": "F1_NORRIS",
	"charles leclerc": "F1_LECLERC", "leclerc": "F1_LECLERC",
	"red bull racing": "F1_REDBULL",
	"mclaren":         "F1_MCLAREN",
	"ferrari":         "F1_FERRARI",

	// Golf
	"scottie scheffler": "GLF_SCHEFFLER", "scheffler": "GLF_SCHEFFLER",
	"rory mcilroy": "GLF_MCILROY", "mcilroy": "GLF_MCILROY",
	"xander schauffele": "GLF_SCHAUFFELE",
}

// teamDomains tags canonical team ids with a sub-domain for game-type
// fallback when no explicit keyword matched.
var teamDomains = map[string]string{
	"ES_VIT": "esports", "ES_FAL": "esports", "ES_NAVI": "esports",
	"ES_FAZE": "esports", "ES_G2": "esports", "ES_SPIRIT": "esports",
	"ES_MOUZ": "esports", "ES_T1": "esports", "ES_GENG": "esports",
	"ES_TL": "esports", "ES_FNC": "esports", "ES_C9": "esports",
	"ES_AST": "esports", "ES_HEROIC": "esports",

	"CMB_JONES": "combat", "CMB_MAKHACHEV": "combat", "CMB_PEREIRA": "combat",
	"CMB_TOPURIA": "combat", "CMB_CANELO": "combat", "CMB_FURY": "combat",
	"CMB_USYK": "combat",

	"TEN_DJOKOVIC": "tennis", "TEN_ALCARAZ": "tennis", "TEN_SINNER": "tennis",
	"TEN_SWIATEK": "tennis", "TEN_SABALENKA": "tennis",

	"F1_VERSTAPPEN": "motorsport", "F1_NORRIS": "motorsport",
	"F1_LECLERC": "motorsport", "F1_REDBULL": "motorsport",
	"F1_MCLAREN": "motorsport", "F1_FERRARI": "motorsport",

	"GLF_SCHEFFLER": "golf", "GLF_MCILROY": "golf", "GLF_SCHAUFFELE": "golf",
}

var personAliases = map[string]string{
	"donald trump": "PERSON_TRUMP", "trump": "PERSON_TRUMP",
	"jd vance": "PERSON_VANCE",
	"gavin newsom": "PERSON_NEWSOM", "newsom": "PERSON_NEWSOM",
	"jerome powell": "PERSON_POWELL", "powell": "PERSON_POWELL",
	"christine lagarde": "PERSON_LAGARDE", "lagarde": "PERSON_LAGARDE",
	"elon musk": "PERSON_MUSK", "musk": "PERSON_MUSK",
	"vladimir putin": "PERSON_PUTIN", "putin": "PERSON_PUTIN",
	"volodymyr zelensky": "PERSON_ZELENSKY", "zelensky": "PERSON_ZELENSKY",
	"zelenskyy": "PERSON_ZELENSKY",
	"xi jinping": "PERSON_XI",
	"keir starmer": "PERSON_STARMER", "starmer": "PERSON_STARMER",
	"emmanuel macron": "PERSON_MACRON", "macron": "PERSON_MACRON",
	"benjamin netanyahu": "PERSON_NETANYAHU", "netanyahu": "PERSON_NETANYAHU",
	"sam altman": "PERSON_ALTMAN",
	"taylor swift": "PERSON_SWIFT",
}

var orgAliases = map[string]string{
	// Central banks
	"federal reserve": "ORG_FED", "the fed": "ORG_FED", "fed": "ORG_FED",
	"fomc": "ORG_FED", "federal open market committee": "ORG_FED",
	"european central bank": "ORG_ECB", "ecb": "ORG_ECB",
	"bank of england": "ORG_BOE", "boe": "ORG_BOE",
	"bank of japan": "ORG_BOJ", "boj": "ORG_BOJ",

	// Crypto assets treated as organizations for identity overlap.
	"bitcoin": "BITCOIN", "btc": "BITCOIN",
	"ethereum": "ETHEREUM", "eth": "ETHEREUM",
	"solana": "SOLANA", "sol": "SOLANA",
	"dogecoin": "DOGECOIN", "doge": "DOGECOIN",
	"xrp": "XRP", "ripple": "XRP",

	// Leagues and governing bodies
	"nba": "LEAGUE_NBA", "national basketball association": "LEAGUE_NBA",
	"nfl": "LEAGUE_NFL",
	"mlb": "LEAGUE_MLB",
	"nhl": "LEAGUE_NHL",
	"premier league": "LEAGUE_EPL", "epl": "LEAGUE_EPL",
	"la liga": "LEAGUE_LALIGA",
	"champions league": "LEAGUE_UCL", "ucl": "LEAGUE_UCL",
	"ufc": "LEAGUE_UFC",
	"formula 1": "LEAGUE_F1", "formula one": "LEAGUE_F1", "f1": "LEAGUE_F1",
	"pga": "LEAGUE_PGA", "pga tour": "LEAGUE_PGA",
	"atp": "LEAGUE_ATP",
	"wta": "LEAGUE_WTA",

	// Institutions and companies
	"opec": "ORG_OPEC",
	"nato": "ORG_NATO",
	"united nations": "ORG_UN",
	"openai":  "ORG_OPENAI",
	"nvidia":  "ORG_NVIDIA",
	"tesla":   "ORG_TESLA",
	"apple":   "ORG_APPLE",
	"spacex":  "ORG_SPACEX",
	"supreme court": "ORG_SCOTUS", "scotus": "ORG_SCOTUS",
}

// orgGames maps league/governing-body ids to a game type for fallback
// detection when titles carry a league name but no team.
var orgGames = map[string]string{
	"LEAGUE_NBA":    "basketball",
	"LEAGUE_NFL":    "football",
	"LEAGUE_MLB":    "baseball",
	"LEAGUE_NHL":    "hockey",
	"LEAGUE_EPL":    "soccer",
	"LEAGUE_LALIGA": "soccer",
	"LEAGUE_UCL":    "soccer",
	"LEAGUE_UFC":    "combat",
	"LEAGUE_F1":     "motorsport",
	"LEAGUE_PGA":    "golf",
	"LEAGUE_ATP":    "tennis",
	"LEAGUE_WTA":    "tennis",
}
