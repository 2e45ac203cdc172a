package employee

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog holds the closed value sets used to validate registrations.
type Catalog struct {
	EmployeeIDPrefix string        `yaml:"employee_id_prefix" json:"employeeIdPrefix"`
	EmailDomain      string        `yaml:"email_domain" json:"emailDomain"`
	Designations     []Designation `yaml:"designations" json:"designations"`
	Departments      []string      `yaml:"departments" json:"departments"`
	Locations        []string      `yaml:"locations" json:"locations"`
}

type Designation struct {
	Name   string   `yaml:"name" json:"name"`
	Skills []string `yaml:"skills" json:"skills"`
}

var prefixPattern = regexp.MustCompile(`^[A-Z]{2}$`)

func DefaultCatalog() Catalog {
	return Catalog{
		EmployeeIDPrefix: "TM",
		EmailDomain:      "@gmail.com",
		Designations: []Designation{
			{Name: "Backend Developer", Skills: []string{
				"JavaScript", "Node.js", "Python", "Java", "C#", "PHP", "Go", "Ruby", "Rust", "Scala", "Kotlin",
				"Express.js", "Django", "Flask", "FastAPI", "Spring Boot", "ASP.NET Core", "Laravel", "Gin", "Echo",
				"Nest.js", "PostgreSQL", "MySQL", "MongoDB", "Redis", "Elasticsearch", "Cassandra", "DynamoDB",
				"Oracle Database", "SQL Server", "Neo4j", "REST API Design", "GraphQL", "gRPC", "WebSocket",
				"Microservices Architecture", "API Gateway", "OAuth/JWT", "Swagger/OpenAPI", "Message Queues",
				"Event-Driven Architecture",
			}},
			{Name: "Frontend Developer", Skills: []string{
				"JavaScript (ES6+)", "TypeScript", "HTML5", "CSS3", "Sass/SCSS", "Less", "JSX", "WebAssembly",
				"React.js", "Vue.js", "Angular", "Next.js", "Nuxt.js", "Svelte/SvelteKit", "Ember.js", "Alpine.js",
				"Lit", "Stencil", "Material-UI (MUI)", "Ant Design", "Chakra UI", "Bootstrap", "Tailwind CSS",
				"Styled Components", "Emotion", "Framer Motion", "GSAP", "Three.js", "Redux/Redux Toolkit",
				"Vuex/Pinia", "MobX", "Zustand", "Recoil", "Context API", "Webpack", "Vite", "Parcel", "Jest",
				"Cypress", "Testing Library", "Storybook", "ESLint/Prettier",
			}},
			{Name: "AI/ML/Data Scientist", Skills: []string{
				"Python", "R", "SQL", "Scala", "Java", "Julia", "MATLAB", "C++", "TensorFlow", "PyTorch", "Keras",
				"Scikit-learn", "XGBoost", "LightGBM", "CatBoost", "Statsmodels", "MLflow", "Weights & Biases",
				"Convolutional Neural Networks (CNN)", "Recurrent Neural Networks (RNN/LSTM)", "Transformers",
				"BERT/GPT Models", "GANs", "Reinforcement Learning", "Transfer Learning", "Computer Vision",
				"Natural Language Processing", "Speech Recognition", "Pandas", "NumPy", "Matplotlib", "Seaborn",
				"Plotly", "Apache Spark", "Hadoop", "Kafka", "Apache Airflow", "Dask", "AWS SageMaker",
				"Google Cloud AI", "Azure Machine Learning", "Kubeflow", "Docker", "Kubernetes", "MLOps",
				"Model Deployment", "A/B Testing", "Feature Engineering", "LangChain", "Hugging Face", "OpenAI API",
			}},
			{Name: "DevOps Engineer", Skills: []string{
				"Amazon Web Services (AWS)", "Microsoft Azure", "Google Cloud Platform (GCP)", "DigitalOcean",
				"IBM Cloud", "Oracle Cloud", "Alibaba Cloud", "Multi-cloud Strategy", "Docker", "Kubernetes",
				"Docker Compose", "Helm", "OpenShift", "Rancher", "Istio", "Linkerd", "Terraform",
				"AWS CloudFormation", "Azure Resource Manager", "Google Cloud Deployment Manager", "Pulumi",
				"Ansible", "Chef", "Puppet", "SaltStack", "Jenkins", "GitLab CI/CD", "GitHub Actions",
				"Azure DevOps", "CircleCI", "Travis CI", "Bamboo", "TeamCity", "ArgoCD", "Spinnaker",
				"Prometheus", "Grafana", "ELK Stack", "Datadog", "New Relic", "Splunk", "Jaeger", "Zipkin",
			}},
		},
		Departments: []string{"Software Engineering", "FinOps", "AI & Gen AI Solutions"},
		Locations:   []string{"Hyderabad", "Kolkata", "Hubli", "Gurgaon"},
	}
}

// LoadCatalog reads a YAML override. Sections left empty in the file keep their defaults.
func LoadCatalog(path string) (Catalog, error) {
	catalog := DefaultCatalog()
	if strings.TrimSpace(path) == "" {
		return catalog, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}
	if override.EmployeeIDPrefix != "" {
		catalog.EmployeeIDPrefix = override.EmployeeIDPrefix
	}
	if override.EmailDomain != "" {
		catalog.EmailDomain = override.EmailDomain
	}
	if len(override.Designations) > 0 {
		catalog.Designations = override.Designations
	}
	if len(override.Departments) > 0 {
		catalog.Departments = override.Departments
	}
	if len(override.Locations) > 0 {
		catalog.Locations = override.Locations
	}
	if err := catalog.Validate(); err != nil {
		return Catalog{}, err
	}
	return catalog, nil
}

func (c Catalog) Validate() error {
	if !prefixPattern.MatchString(c.EmployeeIDPrefix) {
		return fmt.Errorf("catalog: employee_id_prefix %q must be two uppercase letters", c.EmployeeIDPrefix)
	}
	if !strings.HasPrefix(c.EmailDomain, "@") {
		return fmt.Errorf("catalog: email_domain %q must start with @", c.EmailDomain)
	}
	if len(c.Designations) == 0 || len(c.Departments) == 0 || len(c.Locations) == 0 {
		return errors.New("catalog: designations, departments and locations must not be empty")
	}
	for _, d := range c.Designations {
		if strings.TrimSpace(d.Name) == "" || len(d.Skills) == 0 {
			return fmt.Errorf("catalog: designation %q needs a name and at least one skill", d.Name)
		}
	}
	return nil
}

func (c Catalog) DesignationNames() []string {
	out := make([]string, 0, len(c.Designations))
	for _, d := range c.Designations {
		out = append(out, d.Name)
	}
	return out
}

func (c Catalog) SkillsFor(designation string) ([]string, bool) {
	for _, d := range c.Designations {
		if d.Name == designation {
			return d.Skills, true
		}
	}
	return nil, false
}

func (c Catalog) HasDepartment(name string) bool {
	return contains(c.Departments, name)
}

func (c Catalog) HasLocation(name string) bool {
	return contains(c.Locations, name)
}

func (c Catalog) idPattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(c.EmployeeIDPrefix) + `\d{5}$`)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
