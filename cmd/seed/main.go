// seed inserts development sample data for local testing. Run via go run ./cmd/seed.
// Idempotent: skips inserts if the dev organization already exists.
package main

import (
	"context"
	"log"
	"time"

	"procurehub/internal/config"
	"procurehub/internal/db"

	assetdomain "procurehub/internal/asset/domain"
	assetrepo "procurehub/internal/asset/repository"
	evaluationdomain "procurehub/internal/evaluation/domain"
	evaluationrepo "procurehub/internal/evaluation/repository"
	membershipdomain "procurehub/internal/membership/domain"
	membershiprepo "procurehub/internal/membership/repository"
	organizationdomain "procurehub/internal/organization/domain"
	organizationrepo "procurehub/internal/organization/repository"
	projectdomain "procurehub/internal/project/domain"
	projectrepo "procurehub/internal/project/repository"
	workpackagedomain "procurehub/internal/workpackage/domain"
	workpackagerepo "procurehub/internal/workpackage/repository"
)

const (
	devOrgID     = "dev-org-001"
	devOwnerID   = "dev-user-001"
	devMemberID  = "dev-user-002"
	devProjectID = "dev-project-001"
	devPackageID = "dev-package-001"
	devInvitee   = "invitee@example.com"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	sqlDB, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer sqlDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orgs := organizationrepo.NewPostgresRepository(sqlDB)
	existing, err := orgs.GetOrganizationByID(ctx, devOrgID)
	if err != nil {
		log.Fatalf("seed: check org: %v", err)
	}
	if existing != nil {
		log.Printf("seed: org %s already exists, nothing to do", devOrgID)
		return
	}

	now := time.Now().UTC()
	if err := orgs.CreateOrganization(ctx, &organizationdomain.Org{
		ID: devOrgID, Name: "Dev Procurement Co", Status: organizationdomain.OrgStatusActive, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed: org: %v", err)
	}

	memberships := membershiprepo.NewPostgresRepository(sqlDB)
	for _, m := range []*membershipdomain.Membership{
		{ID: "dev-m-001", UserID: devOwnerID, OrgID: devOrgID, Role: membershipdomain.RoleOwner, CreatedAt: now},
		{ID: "dev-m-002", UserID: devMemberID, OrgID: devOrgID, Role: membershipdomain.RoleMember, CreatedAt: now},
	} {
		if err := memberships.CreateMembership(ctx, m); err != nil {
			log.Fatalf("seed: membership %s: %v", m.ID, err)
		}
	}

	projects := projectrepo.NewPostgresRepository(sqlDB)
	if err := projects.CreateProject(ctx, &projectdomain.Project{
		ID: devProjectID, OrgID: devOrgID, CreatorUserID: devOwnerID,
		Name: "Harbour Crane Replacement", Status: projectdomain.StatusActive, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed: project: %v", err)
	}
	if err := projects.AddMember(ctx, projectdomain.NewActiveMember("dev-pm-001", devProjectID, devMemberID, projectdomain.MemberRoleTechnicalLead)); err != nil {
		log.Fatalf("seed: project member: %v", err)
	}
	// A pending invitation: linked to a user on first sign-in via /v1/invites/reconcile.
	if err := projects.AddMember(ctx, projectdomain.NewInvitedMember("dev-pm-002", devProjectID, devInvitee, projectdomain.MemberRoleCommercialLead)); err != nil {
		log.Fatalf("seed: invited member: %v", err)
	}

	packages := workpackagerepo.NewPostgresRepository(sqlDB)
	if err := packages.CreatePackage(ctx, &workpackagedomain.Package{
		ID: devPackageID, ProjectID: devProjectID,
		Name: "Electrical Works", Status: workpackagedomain.StatusActive, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed: package: %v", err)
	}
	if err := packages.AddMember(ctx, &workpackagedomain.Member{
		ID: "dev-km-001", PackageID: devPackageID, UserID: devMemberID,
		Role: workpackagedomain.MemberRoleCommercialTeam, CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed: package member: %v", err)
	}

	assets := assetrepo.NewPostgresRepository(sqlDB)
	if err := assets.CreateAsset(ctx, &assetdomain.Asset{
		ID: "dev-a-001", PackageID: devPackageID, Name: "Single Line Diagram",
		Kind: assetdomain.KindDrawing, ObjectKey: "dev/sld-rev2.pdf", CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed: asset: %v", err)
	}

	rounds := evaluationrepo.NewPostgresRepository(sqlDB)
	if err := rounds.CreateRound(ctx, &evaluationdomain.Round{
		ID: "dev-r-001", PackageID: devPackageID, Kind: evaluationdomain.KindTechnical,
		Number: 1, Status: evaluationdomain.RoundStatusOpen,
		Scores: evaluationdomain.ContractorScores{
			"Acme Electrical":  {"compliance": 42, "methodology": 31},
			"Globex Power":     {"compliance": 38, "methodology": 35},
			"Initech Services": {"compliance": 44, "methodology": 29},
		},
		CreatedAt: now,
	}); err != nil {
		log.Fatalf("seed: round: %v", err)
	}

	log.Printf("seed: created org %s with project %s and package %s", devOrgID, devProjectID, devPackageID)
}
