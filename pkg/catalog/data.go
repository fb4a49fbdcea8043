package catalog

var articles = []Article{
	{
		ID:          "art-101",
		Title:       "Introduction to Forensic Science (FSC 111)",
		Category:    "General",
		Description: "A comprehensive full-course note covering the foundation, history, principles, and professional ethics of Forensic Science.",
		Content: `## CHAPTER 1: THE FOUNDATION OF FORENSIC SCIENCE

Forensic science is the application of scientific principles and techniques to matters of criminal and civil law. The Locard Exchange Principle, postulated by Edmond Locard, states that every contact leaves a trace: whenever two objects come into contact, there is an exchange of materials between them.

### The Seven Fundamental Principles
1. Law of Individuality: every object has an individuality not duplicated in any other.
2. Principle of Analysis: the quality of analysis is only as good as the sample found.
3. Law of Progressive Change: evidence degrades over time.
4. Principle of Comparison: only like can be compared with like.
5. Law of Probability: all identifications are made on the probability of a match.
6. Principle of Circumstantial Facts: physical evidence is a silent witness.
7. Law of Correlation: converging evidence raises certainty.

## CHAPTER 2: ETHICS & THE NIGERIAN LEGAL CONTEXT

In Nigeria, forensic evidence must comply with the Evidence Act (2011). Admissibility depends on relevance, the competence of the expert witness, and the reliability of the scientific method. A forensic scientist's duty is to the truth, not to the prosecution or the defense.`,
		IsPremium: false,
		Author:    "Dr. Kunle Adeleke",
		ReadTime:  "25 min",
		Image:     "https://images.unsplash.com/photo-1516062423079-7ca13cdc7f5a?q=80&w=800&auto=format&fit=crop",
		Level:     100,
		Semester:  1,
	},
	{
		ID:          "art-203",
		Title:       "Fingerprint Classification (Henry System)",
		Category:    "Physical",
		Description: "Mastering the identification of loops, whorls, and arches for manual and AFIS database searches.",
		Content: `## MODULE: DACTYLOSCOPY & HUMAN IDENTIFICATION

Fingerprint reliability rests on permanence and uniqueness. Patterns form in the fetal stage and sit in the dermal papillae, so minor cuts or burns do not change them.

### Pattern Classification
- Loops (60-65% of population): ulnar or radial, one delta, at least one ridge between delta and core.
- Whorls (30-35%): plain, central pocket loop, double loop, accidental; at least two deltas.
- Arches (5%): plain or tented; no deltas or cores.

### Minutiae
Individualization rests on ridge characteristics, not general pattern. A match usually requires 8 to 16 points of similarity: ridge endings, bifurcations, islands, enclosures.`,
		IsPremium: true,
		Author:    "Agent Sarah Paul",
		ReadTime:  "18 min",
		Image:     "https://images.unsplash.com/photo-1576086213369-97a306d36557?q=80&w=800&auto=format&fit=crop",
		Level:     200,
		Semester:  2,
	},
	{
		ID:          "art-311",
		Title:       "Forensic Serology & DNA Profiling (FSC 311)",
		Category:    "Biological",
		Description: "Advanced study of biological fluid identification and the mechanics of STR-based DNA profiling.",
		Content: `## MODULE: SEROLOGY & DNA

Presumptive tests (Kastle-Meyer, luminol) screen for blood; confirmatory tests (Takayama crystals) establish it. STR analysis amplifies short tandem repeat loci by PCR and resolves them electrophoretically; a full profile match is expressed as a one-in-billions probability. Mitochondrial DNA survives in degraded skeletal remains and follows the maternal line, enabling familial searching in cold cases.`,
		IsPremium: false,
		Author:    "Prof. Amaka Nwosu",
		ReadTime:  "35 min",
		Image:     "https://images.unsplash.com/photo-1530026405186-ed1f139313f8?q=80&w=800&auto=format&fit=crop",
		Level:     300,
		Semester:  1,
	},
	{
		ID:          "art-411",
		Title:       "Forensic Ballistics & Firearms Identification (FSC 411)",
		Category:    "Ballistics",
		Description: "Technical analysis of firearms, ammunition, and the physics of projectile motion in criminal investigation.",
		Content: `## MODULE: FIREARMS & TOOLMARKS

Rifling imparts class characteristics (land and groove count, twist direction) while barrel wear imparts individual striations. A comparison microscope aligns evidence and test-fired bullets; IBIS databases automate candidate matching. Trajectory reconstruction works backwards from entry/exit defects and impact angles to the origin of fire.`,
		IsPremium: true,
		Author:    "Dr. Kunle Adeleke",
		ReadTime:  "40 min",
		Image:     "https://images.unsplash.com/photo-1453873531674-2151bcd01707?q=80&w=800&auto=format&fit=crop",
		Level:     400,
		Semester:  2,
	},
}

var notes = []Note{
	{
		ID:          "note-001",
		Title:       "Ballistics & Internal Rifling Mechanics",
		Lecturer:    "Dr. Kunle Adeleke",
		Level:       400,
		Description: "Advanced technical guide covering the physics of rifling, striation formation, and the use of IBIS (Integrated Ballistics Identification System).",
		Content: `## UNIT 1: RIFLING MECHANICS
Lands and grooves impart gyroscopic spin; twist rate and direction are class characteristics. Striations left by barrel imperfections are individual characteristics.
## UNIT 2: IBIS WORKFLOW
Acquisition of breech face and firing pin impressions, correlation scoring, and candidate list review by a firearms examiner.`,
		Price:      1000,
		IsVerified: true,
		CourseCode: "FSC 411",
	},
	{
		ID:          "note-002",
		Title:       "Introduction to Serology",
		Lecturer:    "Prof. Amaka Nwosu",
		Level:       200,
		Description: "Foundation module for blood identification, including enzymatic tests, crystal tests, and the history of ABO typing.",
		Content: `## LECTURE 1: PRESUMPTIVE TESTS
Kastle-Meyer (phenolphthalein) and luminol chemistry, sensitivity versus specificity, and common false positives.
## LECTURE 2: CONFIRMATORY TESTS
Takayama and Teichmann crystal tests, species determination by immunodiffusion.`,
		Price:      0,
		IsVerified: true,
		CourseCode: "FSC 211",
	},
	{
		ID:          "note-003",
		Title:       "Forensic Toxicology: Post-Mortem Analysis",
		Lecturer:    "Dr. Bamidele Silas",
		Level:       300,
		Description: "Comprehensive guide to screening for poisons, drugs of abuse, and alcohol in biological specimens.",
		Content: `## SECTION A: SPECIMEN SELECTION
Peripheral blood over cardiac blood for quantitation; vitreous humour for post-mortem alcohol; hair for chronic exposure windows.
## SECTION B: SCREEN AND CONFIRM
Immunoassay screening followed by GC-MS or LC-MS/MS confirmation, with chain of custody at every transfer.`,
		Price:      1000,
		IsVerified: true,
		CourseCode: "FSC 321",
	},
}

var cases = []Case{
	{
		ID:         "case-NG-2024-001",
		Title:      "The Obalende Arson & Accelerant Trail",
		Difficulty: "Intermediate",
		Summary:    "A luxury warehouse in Obalende was razed. Investigators suspect professional sabotage using high-grade accelerants. Analyze pour patterns and residue samples.",
		Evidence:   []string{"Charred wood samples", "V-pattern charring", "Security metadata", "Hydrocarbon detector logs"},
		Location:   "Obalende, Lagos State",
		Date:       "March 14, 2024",
	},
	{
		ID:         "case-NG-2023-088",
		Title:      "The Lekki Ballistics Trajectory",
		Difficulty: "Expert",
		Summary:    "A high-profile vehicle ambush on Lekki Expressway. Determine the shooter's position based on glass fracture patterns and bullet entry angles.",
		Evidence:   []string{"Shattered tempered glass", "Spent 9mm casings", "Trajectory rods", "Vehicle telemetry"},
		Location:   "Lekki-Epe Expressway, Lagos",
		Date:       "November 22, 2023",
	},
	{
		ID:         "case-NG-2024-012",
		Title:      "The Port Harcourt Cold Case DNA",
		Difficulty: "Expert",
		Summary:    "Skeletal remains found at a construction site in PH. Use mitochondrial DNA and familial searching to identify a victim missing since 1998.",
		Evidence:   []string{"Femur fragment", "Tattered fabric", "Soil pH records", "Dental records"},
		Location:   "Diobu, Port Harcourt",
		Date:       "January 10, 2024",
	},
}
