package entities

// SeedAdmittedCount is the "newly admitted" counter value at session start
const SeedAdmittedCount = 5

// SeedPatients returns the records every new session starts with.
// A fresh slice is returned on each call so sessions never share backing arrays.
func SeedPatients() []Patient {
	return []Patient{
		{
			ID:            "P001",
			Name:          "Amina Traoré",
			Age:           34,
			Gender:        GenderFemale,
			LastVisit:     "2025-05-10",
			BirthDate:     "1991-03-15",
			Illness:       "Paludisme",
			LastVisitInfo: "Traitement antipaludique prescrit, suivi dans 7 jours.",
			HealthStatus:  StatusImproving,
		},
		{
			ID:            "P002",
			Name:          "Moussa Diallo",
			Age:           45,
			Gender:        GenderMale,
			LastVisit:     "2025-05-12",
			BirthDate:     "1980-08-20",
			Illness:       "Hypertension",
			LastVisitInfo: "Ajustement de la médication, contrôle de la tension artérielle.",
			HealthStatus:  StatusStable,
		},
		{
			ID:            "P003",
			Name:          "Fatou Ndiaye",
			Age:           28,
			Gender:        GenderFemale,
			LastVisit:     "2025-05-09",
			BirthDate:     "1997-01-10",
			Illness:       "Diabète de type 1",
			LastVisitInfo: "Éducation sur l'injection d'insuline.",
			HealthStatus:  StatusStable,
		},
		{
			ID:            "P004",
			Name:          "Oumar Koné",
			Age:           52,
			Gender:        GenderMale,
			LastVisit:     "2025-05-11",
			BirthDate:     "1973-11-25",
			Illness:       "Fracture du bras",
			LastVisitInfo: "Pose d'un plâtre, antidouleurs prescrits.",
			HealthStatus:  StatusImproving,
		},
		{
			ID:            "P005",
			Name:          "Mariam Diop",
			Age:           61,
			Gender:        GenderFemale,
			LastVisit:     "2025-05-13",
			BirthDate:     "1964-06-30",
			Illness:       "Insuffisance cardiaque",
			LastVisitInfo: "Patient référé à un cardiologue.",
			HealthStatus:  StatusCritical,
		},
	}
}
