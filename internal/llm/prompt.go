package llm

// resumeSchemaExample is the exact JSON shape the model must reproduce. It
// mirrors the ParsedResume JSON tags and the normalizer's JSON schema.
const resumeSchemaExample = `{
    "personal_info": {
        "name": "Full Name",
        "email": "email@example.com",
        "phone": "phone number",
        "address": "full address",
        "linkedin": "linkedin URL",
        "github": "github URL",
        "portfolio": "portfolio URL"
    },
    "summary": "Professional summary text",
    "experience": [
        {
            "company": "Company Name",
            "position": "Job Title",
            "duration": "Start Date - End Date",
            "location": "City, State",
            "description": "Job description and achievements",
            "technologies": ["tech1", "tech2"]
        }
    ],
    "education": [
        {
            "degree": "Degree Name",
            "institution": "Institution Name",
            "year": "Graduation Year",
            "gpa": "GPA if mentioned",
            "coursework": ["course1", "course2"]
        }
    ],
    "skills": {
        "technical": ["skill1", "skill2"],
        "programming": ["lang1", "lang2"],
        "tools": ["tool1", "tool2"],
        "soft_skills": ["skill1", "skill2"],
        "languages": ["English", "Spanish"]
    },
    "certifications": [
        {
            "name": "Certification Name",
            "issuer": "Issuing Organization",
            "date": "Issue Date"
        }
    ],
    "projects": [
        {
            "name": "Project Name",
            "description": "Project description",
            "technologies": ["tech1", "tech2"],
            "duration": "Project duration",
            "achievements": "Key achievements"
        }
    ],
    "additional": {
        "awards": ["award1", "award2"],
        "publications": ["pub1", "pub2"],
        "volunteer": ["volunteer work"],
        "interests": ["interest1", "interest2"]
    }
}`

const resumePromptHeader = `You are an expert resume parser and HR analyst. Analyze the following resume text and extract comprehensive information. Be thorough and accurate in your extraction.

Resume Text:
`

const resumePromptInstructions = `

Extract and structure the following information as a JSON object:

1. Personal Information: full name, email address, phone number, physical address, LinkedIn profile URL, GitHub and portfolio URLs
2. Professional Summary: brief career overview or objective
3. Work Experience: every job with company, position, duration, location, responsibilities and achievements, technologies used
4. Education: every qualification with degree, institution, graduation year, GPA if mentioned, relevant coursework
5. Skills: technical skills, programming languages, tools and technologies, soft skills, spoken languages
6. Certifications: every professional certification with its issuing organization and date
7. Projects: personal and professional projects with name, description, technologies, duration, key achievements
8. Additional Information: awards, publications, volunteer work, hobbies and interests

Return ONLY a valid JSON object with this exact structure:
`

const resumePromptFooter = `

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text or explanation
2. If any field is not found, use null or empty array []. Never omit a key
3. Keep every list in the order it appears in the resume`

// BuildResumePrompt returns the extraction prompt for resumeText. It is
// deterministic and accepts empty input.
func BuildResumePrompt(resumeText string) string {
	return resumePromptHeader + resumeText + resumePromptInstructions + resumeSchemaExample + resumePromptFooter
}
